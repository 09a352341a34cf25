package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

func TestTagSaveRequiresTitle(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	err := f.Tags().Save(&core.Tag{})
	assert.ErrorIs(t, err, core.ErrInvalidTag)
}

func TestTagTitleUniqueness(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	require.NoError(t, tags.Save(&core.Tag{Title: "Renaissance"}))

	// same title fails
	err := tags.Save(&core.Tag{Title: "Renaissance"})
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// uniqueness is on the normalized title
	err = tags.Save(&core.Tag{Title: "RENAISSANCE"})
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	count, err := tags.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTagFindByTitle(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	tag := &core.Tag{Title: "Früh-Renaissance"}
	require.NoError(t, tags.Save(tag))

	found, err := tags.FindByTitle("früh-renaissance")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tag.ID(), found.ID())

	missing, err := tags.FindByTitle("Barock")
	require.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := tags.FindByTitle("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestTagRenameMovesSlug(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	tag := &core.Tag{Title: "Old Title"}
	require.NoError(t, tags.Save(tag))

	tag.Title = "New Title"
	require.NoError(t, tags.Save(tag))

	old, err := tags.FindByTitle("Old Title")
	require.NoError(t, err)
	assert.Nil(t, old)

	renamed, err := tags.FindByTitle("New Title")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, tag.ID(), renamed.ID())

	// the freed title is available again
	require.NoError(t, tags.Save(&core.Tag{Title: "Old Title"}))
}

func TestTagRenameToTakenTitleKeepsRecord(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	require.NoError(t, tags.Save(&core.Tag{Title: "Baroque"}))
	tag := &core.Tag{Title: "Rococo"}
	require.NoError(t, tags.Save(tag))

	tag.Title = "Baroque"
	err := tags.Save(tag)
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// the failed rename left record and slug index agreeing on the old title
	loaded, err := tags.Find(tag.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Rococo", loaded.Title)

	found, err := tags.FindByTitle("Rococo")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tag.ID(), found.ID())
}

func TestTagDeleteFreesTitle(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	tag := &core.Tag{Title: "Ephemeral"}
	require.NoError(t, tags.Save(tag))
	require.NoError(t, tags.Delete(tag))

	found, err := tags.FindByTitle("Ephemeral")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, tags.Save(&core.Tag{Title: "Ephemeral"}))
}

func TestFindOrCreateByTitles(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	existing := &core.Tag{Title: "Florence"}
	require.NoError(t, tags.Save(existing))

	result, err := tags.FindOrCreateByTitles([]string{
		"Florence", "Venice", "", "  ", "venice", "Rome",
	})
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, existing.ID(), result[0].ID())
	assert.Equal(t, "Venice", result[1].Title)
	assert.Equal(t, "Rome", result[2].Title)

	count, err := tags.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestFindIdsAndTitles(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	tag := &core.Tag{Title: "Florence"}
	require.NoError(t, tags.Save(tag))

	ids, err := tags.FindIdsByTitles([]string{"Florence", "Atlantis"})
	require.NoError(t, err)
	assert.Equal(t, []string{tag.ID()}, ids)

	titles, err := tags.FindTitlesByIds([]string{tag.ID(), "#1:999"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Florence"}, titles)
}

func TestConnectAndDisconnect(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	parent := &core.Tag{Title: "Art"}
	child := &core.Tag{Title: "Painting"}
	require.NoError(t, tags.Save(parent))
	require.NoError(t, tags.Save(child))

	require.NoError(t, tags.Connect(parent, child))
	// connecting twice is fine
	require.NoError(t, tags.Connect(parent, child))

	below, err := tags.FindConnected(parent.ID(), false)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, child.ID(), below[0].ID)

	require.NoError(t, tags.Disconnect(parent.ID(), child.ID()))
	below, err = tags.FindConnected(parent.ID(), false)
	require.NoError(t, err)
	assert.Empty(t, below)

	// disconnecting a connection that is not there is a no-op
	require.NoError(t, tags.Disconnect(parent.ID(), child.ID()))
}

func TestConnectRequiresPersistedEntities(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	saved := &core.Tag{Title: "saved"}
	require.NoError(t, tags.Save(saved))

	err := tags.Connect(saved, &core.Tag{Title: "unsaved"})
	assert.ErrorIs(t, err, store.ErrNotPersisted)
	err = tags.Connect(&core.Tag{Title: "unsaved"}, saved)
	assert.ErrorIs(t, err, store.ErrNotPersisted)
	err = tags.Connect(nil, saved)
	assert.ErrorIs(t, err, store.ErrNotPersisted)
}

func TestConnectRejectsCycles(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	a := &core.Tag{Title: "a"}
	b := &core.Tag{Title: "b"}
	c := &core.Tag{Title: "c"}
	for _, tag := range []*core.Tag{a, b, c} {
		require.NoError(t, tags.Save(tag))
	}

	require.NoError(t, tags.Connect(a, b))
	require.NoError(t, tags.Connect(b, c))

	// closing the loop is rejected
	err := tags.Connect(c, a)
	assert.ErrorIs(t, err, ErrCircularReference)

	// direct back edge too
	err = tags.Connect(b, a)
	assert.ErrorIs(t, err, ErrCircularReference)

	// self connection too
	err = tags.Connect(a, a)
	assert.ErrorIs(t, err, ErrCircularReference)

	// diamond shapes are no cycle: a -> b -> c plus a -> c
	require.NoError(t, tags.Connect(a, c))
}

func TestAncestry(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	grand := &core.Tag{Title: "grand"}
	parent := &core.Tag{Title: "parent"}
	node := &core.Node{Title: "leaf"}
	require.NoError(t, tags.Save(grand))
	require.NoError(t, tags.Save(parent))
	require.NoError(t, f.Nodes().Save(node))

	require.NoError(t, tags.Connect(grand, parent))
	require.NoError(t, tags.Connect(parent, node))

	isAncestor, err := tags.IsAncestorOf(grand.ID(), node.ID())
	require.NoError(t, err)
	assert.True(t, isAncestor)

	isDescendant, err := tags.IsDescendantOf(node.ID(), grand.ID())
	require.NoError(t, err)
	assert.True(t, isDescendant)

	isAncestor, err = tags.IsAncestorOf(node.ID(), grand.ID())
	require.NoError(t, err)
	assert.False(t, isAncestor)

	// nothing is its own ancestor
	isAncestor, err = tags.IsAncestorOf(grand.ID(), grand.ID())
	require.NoError(t, err)
	assert.False(t, isAncestor)
}

func TestFindConnectedTransitiveAndFiltered(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	root := &core.Tag{Title: "root"}
	sub := &core.Tag{Title: "sub"}
	node := &core.Node{Title: "a node"}
	require.NoError(t, tags.Save(root))
	require.NoError(t, tags.Save(sub))
	require.NoError(t, f.Nodes().Save(node))

	require.NoError(t, tags.Connect(root, sub))
	require.NoError(t, tags.Connect(sub, node))

	direct, err := tags.FindConnected(root.ID(), false)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, sub.ID(), direct[0].ID)

	all, err := tags.FindConnected(root.ID(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyNodes, err := tags.FindConnected(root.ID(), true, core.ModelNode)
	require.NoError(t, err)
	require.Len(t, onlyNodes, 1)
	assert.Equal(t, node.ID(), onlyNodes[0].ID)
	assert.Equal(t, core.ModelNode, onlyNodes[0].Model)
}

func TestFindTagIdsConnectedToEntity(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	grand := &core.Tag{Title: "grand"}
	parent := &core.Tag{Title: "parent"}
	node := &core.Node{Title: "leaf"}
	require.NoError(t, tags.Save(grand))
	require.NoError(t, tags.Save(parent))
	require.NoError(t, f.Nodes().Save(node))

	require.NoError(t, tags.Connect(grand, parent))
	require.NoError(t, tags.Connect(parent, node))

	direct, err := tags.FindTagIdsConnectedToEntity(node.ID(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{parent.ID()}, direct)

	closure, err := tags.FindTagIdsConnectedToEntity(node.ID(), false)
	require.NoError(t, err)
	assert.Len(t, closure, 2)
	assert.Contains(t, closure, grand.ID())
	assert.Contains(t, closure, parent.ID())
}

func TestTagDeleteOrphansChildren(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	parent := &core.Tag{Title: "parent"}
	child := &core.Tag{Title: "child"}
	require.NoError(t, tags.Save(parent))
	require.NoError(t, tags.Save(child))
	require.NoError(t, tags.Connect(parent, child))

	require.NoError(t, tags.Delete(parent))

	// the child survives, the connection does not
	loaded, err := tags.Find(child.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	above, err := tags.FindTagIdsConnectedToEntity(child.ID(), true)
	require.NoError(t, err)
	assert.Empty(t, above)
}

func TestTagPaginateSearch(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	tags := f.Tags()

	for _, title := range []string{"Renaissance", "Early Renaissance", "Baroque"} {
		require.NoError(t, tags.Save(&core.Tag{Title: title}))
	}

	page, err := tags.Paginate(1, 10, TagFilters{Search: "renaissance"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Entities, 2)
	// ordered by title
	assert.Equal(t, "Early Renaissance", page.Entities[0].Title)
}

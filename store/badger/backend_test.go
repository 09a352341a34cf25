package badger

import (
	"errors"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

func testClasses() []store.Class {
	return []store.Class{
		{Name: "Tag", Cluster: 1},
		{Name: "Node", Cluster: 2},
	}
}

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewMemoryGraph(testClasses())
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestOpenRejectsBadSchema(t *testing.T) {
	_, err := NewMemoryGraph([]store.Class{{Name: "Tag", Cluster: 0}})
	assert.ErrorIs(t, err, store.ErrUnknownClass)

	_, err = NewMemoryGraph([]store.Class{
		{Name: "Tag", Cluster: 1},
		{Name: "Tag", Cluster: 2},
	})
	assert.ErrorIs(t, err, store.ErrUnknownClass)

	_, err = NewMemoryGraph([]store.Class{
		{Name: "Tag", Cluster: 1},
		{Name: "Node", Cluster: 1},
	})
	assert.ErrorIs(t, err, store.ErrUnknownClass)
}

func TestClassForID(t *testing.T) {
	g := newTestGraph(t)

	class, err := g.ClassForID("#1:7")
	require.NoError(t, err)
	assert.Equal(t, "Tag", class)

	_, err = g.ClassForID("#99:7")
	assert.ErrorIs(t, err, store.ErrUnknownClass)

	_, err = g.ClassForID("garbage")
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)
}

func TestInsertLoadRoundTrip(t *testing.T) {
	g := newTestGraph(t)

	rec := store.NewRecord("Tag")
	rec.Set("title", "Renaissance")
	require.NoError(t, g.Insert(rec))

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 1, rec.Version)
	assert.True(t, core.ValidID(rec.ID))

	loaded, err := g.Load(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Renaissance", loaded.String("title"))
	assert.Equal(t, "Tag", loaded.Class)
	assert.Equal(t, 1, loaded.Version)
}

func TestLoadAbsentAndMalformed(t *testing.T) {
	g := newTestGraph(t)

	// well-formed id, nothing behind it
	rec, err := g.Load("#1:12345")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// well-formed id outside the schema
	rec, err = g.Load("#99:1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// malformed id
	_, err = g.Load("not-an-id")
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)
}

func TestUpdateVersionConflict(t *testing.T) {
	g := newTestGraph(t)

	rec := store.NewRecord("Tag")
	rec.Set("title", "original")
	require.NoError(t, g.Insert(rec))

	// simulate two readers
	first, err := g.Load(rec.ID)
	require.NoError(t, err)
	second, err := g.Load(rec.ID)
	require.NoError(t, err)

	first.Set("title", "first writer")
	require.NoError(t, g.Update(first))
	assert.Equal(t, 2, first.Version)

	second.Set("title", "second writer")
	err = g.Update(second)
	assert.ErrorIs(t, err, store.ErrConflict)

	// stored state is the first writer's
	loaded, err := g.Load(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", loaded.String("title"))
	assert.Equal(t, 2, loaded.Version)
}

func TestUpdateChecksClass(t *testing.T) {
	g := newTestGraph(t)

	rec := store.NewRecord("Tag")
	rec.Set("title", "test")
	require.NoError(t, g.Insert(rec))

	rec.Class = "Node"
	err := g.Update(rec)
	assert.ErrorIs(t, err, store.ErrClassMismatch)
}

func TestDeleteRecordIdempotent(t *testing.T) {
	g := newTestGraph(t)

	rec := store.NewRecord("Tag")
	rec.Set("title", "ephemeral")
	require.NoError(t, g.Insert(rec))

	require.NoError(t, g.DeleteRecord(rec.ID))
	loaded, err := g.Load(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// deleting again is a no-op
	require.NoError(t, g.DeleteRecord(rec.ID))
}

func TestScanAndCount(t *testing.T) {
	g := newTestGraph(t)

	for _, title := range []string{"a", "b", "c"} {
		rec := store.NewRecord("Tag")
		rec.Set("title", title)
		require.NoError(t, g.Insert(rec))
	}
	other := store.NewRecord("Node")
	other.Set("title", "not a tag")
	require.NoError(t, g.Insert(other))

	count, err := g.Count("Tag")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var titles []string
	err = g.Scan("Tag", func(rec *store.Record) error {
		titles = append(titles, rec.String("title"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, titles)

	_, err = g.Count("Unknown")
	assert.ErrorIs(t, err, store.ErrUnknownClass)
}

func TestIdsAreUniquePerCluster(t *testing.T) {
	g := newTestGraph(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rec := store.NewRecord("Tag")
		rec.Set("n", int64(i))
		require.NoError(t, g.Insert(rec))
		if seen[rec.ID] {
			t.Fatalf("Duplicate id %s", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestConflictMapping(t *testing.T) {
	assert.Nil(t, mapTxError(nil))
	assert.ErrorIs(t, mapTxError(badgerdb.ErrConflict), store.ErrConflict)

	plain := errors.New("other")
	assert.Equal(t, plain, mapTxError(plain))
}

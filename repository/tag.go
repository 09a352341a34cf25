package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// tagSlugIndex maps normalized tag titles to tag ids. It backs the
// case-insensitive title uniqueness and the by-title lookups.
const tagSlugIndex = "tagslug"

// TagRepository handles tags and the tag hierarchy. Tags form a directed
// acyclic graph over IsTagOf edges; a parent tag points at its children,
// which may be tags or any taggable entity.
type TagRepository struct {
	*Base[*core.Tag]
}

type tagMapper struct{}

func (tagMapper) Model() string { return core.ModelTag }

func (tagMapper) ToRecord(t *core.Tag, rec *store.Record) {
	rec.Set("title", t.Title)
}

func (tagMapper) FromRecord(rec *store.Record) *core.Tag {
	return &core.Tag{Title: rec.String("title")}
}

func newTagRepository(f *Factory) *TagRepository {
	r := &TagRepository{Base: newBase[*core.Tag](f, tagMapper{})}
	r.less = func(a, b *core.Tag) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	r.beforeSave = func(t *core.Tag) error { return core.ValidateTag(t) }
	r.afterDelete = r.releaseSlug
	return r
}

// Save persists the tag and keeps the slug index in step with its title.
// Saving a second tag with the same normalized title fails with
// ErrDuplicateTitle; the index claim is atomic, so two concurrent saves of
// the same new title produce exactly one tag. A rename claims the new title
// before touching the record, so a lost claim leaves record and index
// agreeing on the old title.
func (r *TagRepository) Save(tag *core.Tag) error {
	if err := core.ValidateTag(tag); err != nil {
		return err
	}
	if tag.ID() == "" {
		return r.saveNew(tag)
	}

	newSlug := tag.TitleSlug()
	oldSlug := ""
	old, err := r.Find(tag.ID())
	if err != nil {
		return err
	}
	if old != nil {
		oldSlug = old.TitleSlug()
	}
	if oldSlug == newSlug {
		return r.Base.Save(tag)
	}

	winner, claimed, err := r.factory.store.SetIndexIfAbsent(tagSlugIndex, []byte(newSlug), tag.ID())
	if err != nil {
		return err
	}
	if !claimed && winner != tag.ID() {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, tag.Title)
	}
	if err := r.Base.Save(tag); err != nil {
		if claimed {
			if derr := r.factory.store.DeleteIndex(tagSlugIndex, []byte(newSlug)); derr != nil {
				r.logger.Warn("could not release claimed title", "slug", newSlug, "err", derr)
			}
		}
		return err
	}
	if oldSlug != "" {
		return r.factory.store.DeleteIndex(tagSlugIndex, []byte(oldSlug))
	}
	return nil
}

// saveNew inserts a tag and claims its title. The id is only known after the
// insert, so here the claim follows the write; losing it to a concurrent save
// rolls the insert back.
func (r *TagRepository) saveNew(tag *core.Tag) error {
	s := tag.TitleSlug()
	if _, found, err := r.factory.store.LookupIndex(tagSlugIndex, []byte(s)); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, tag.Title)
	}

	if err := r.Base.Save(tag); err != nil {
		return err
	}
	winner, claimed, err := r.factory.store.SetIndexIfAbsent(tagSlugIndex, []byte(s), tag.ID())
	if err != nil {
		return err
	}
	if !claimed && winner != tag.ID() {
		// a concurrent save claimed the title first; take back our record
		id := tag.ID()
		if err := r.Base.Delete(tag); err != nil {
			return err
		}
		r.logger.Debug("rolled back tag that lost title race", "id", id)
		tag.SetID("")
		tag.SetVersion(0)
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, tag.Title)
	}
	return nil
}

// releaseSlug drops the slug index entry of a deleted tag, unless a
// concurrent save already points it at another tag.
func (r *TagRepository) releaseSlug(tag *core.Tag) error {
	key := []byte(tag.TitleSlug())
	id, found, err := r.factory.store.LookupIndex(tagSlugIndex, key)
	if err != nil {
		return err
	}
	if found && id == tag.ID() {
		return r.factory.store.DeleteIndex(tagSlugIndex, key)
	}
	return nil
}

// FindByTitle looks up a tag by title, matching case-insensitively on the
// normalized slug. Returns (nil, nil) if no such tag exists.
func (r *TagRepository) FindByTitle(title string) (*core.Tag, error) {
	if title == "" {
		return nil, nil
	}
	id, found, err := r.factory.store.LookupIndex(tagSlugIndex, []byte(core.Sluggify(title)))
	if err != nil || !found {
		return nil, err
	}
	return r.Find(id)
}

// FindOrCreateByTitles returns one tag per distinct title, creating the
// missing ones. Empty and duplicate titles are skipped; result order follows
// the input. Losing a concurrent creation race degrades to adopting the
// winner's tag.
func (r *TagRepository) FindOrCreateByTitles(titles []string) ([]*core.Tag, error) {
	var result []*core.Tag
	seen := make(map[string]bool)
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		s := core.Sluggify(title)
		if seen[s] {
			continue
		}
		seen[s] = true

		tag, err := r.findOrCreate(title)
		if err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, nil
}

func (r *TagRepository) findOrCreate(title string) (*core.Tag, error) {
	if tag, err := r.FindByTitle(title); err != nil || tag != nil {
		return tag, err
	}
	tag := &core.Tag{Title: title}
	err := r.Save(tag)
	if errors.Is(err, ErrDuplicateTitle) {
		return r.FindByTitle(title)
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// FindIdsByTitles maps titles to ids of existing tags, skipping titles with
// no tag behind them.
func (r *TagRepository) FindIdsByTitles(titles []string) ([]string, error) {
	var result []string
	for _, title := range titles {
		tag, err := r.FindByTitle(strings.TrimSpace(title))
		if err != nil {
			return nil, err
		}
		if tag != nil {
			result = append(result, tag.ID())
		}
	}
	return result, nil
}

// FindTitlesByIds maps tag ids to titles, skipping ids with no tag behind
// them.
func (r *TagRepository) FindTitlesByIds(ids []string) ([]string, error) {
	var result []string
	for _, id := range ids {
		tag, err := r.Find(id)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			result = append(result, tag.Title)
		}
	}
	return result, nil
}

// Connect makes child a direct child of parent in the tag graph. Both sides
// must be persisted. Connecting is idempotent; a connection that would close
// a cycle, including a self-connection, fails with ErrCircularReference.
func (r *TagRepository) Connect(parent *core.Tag, child core.Entity) error {
	if parent == nil || parent.ID() == "" || child == nil || child.ID() == "" {
		return fmt.Errorf("%w: connect needs persisted entities", store.ErrNotPersisted)
	}
	if parent.ID() == child.ID() {
		return fmt.Errorf("%w: tag cannot contain itself", ErrCircularReference)
	}
	if child.Model() == core.ModelTag {
		// a path child ->* parent means the edge would close a cycle
		cyclic, err := r.factory.store.PathExists(store.EdgeIsTagOf, child.ID(), parent.ID())
		if err != nil {
			return err
		}
		if cyclic {
			return fmt.Errorf("%w: %s is already above %s", ErrCircularReference, child.ID(), parent.ID())
		}
	}

	created, err := r.factory.store.CreateEdge(store.EdgeIsTagOf, parent.ID(), child.ID())
	if err != nil {
		return err
	}
	if !created {
		r.logger.Debug("tag connection already present", "parent", parent.ID(), "child", child.ID())
	}
	return nil
}

// Disconnect removes the direct connection parent -> child. No-op when no
// such connection exists.
func (r *TagRepository) Disconnect(parentID, childID string) error {
	if parentID == "" || childID == "" {
		return nil
	}
	_, err := r.factory.store.DeleteEdge(store.EdgeIsTagOf, parentID, childID)
	return err
}

// IsAncestorOf reports whether a directed path of tag connections leads from
// the candidate tag down to the given entity. No entity is its own ancestor.
func (r *TagRepository) IsAncestorOf(candidateID, entityID string) (bool, error) {
	return r.factory.store.PathExists(store.EdgeIsTagOf, candidateID, entityID)
}

// IsDescendantOf is the inverse perspective of IsAncestorOf.
func (r *TagRepository) IsDescendantOf(entityID, candidateID string) (bool, error) {
	return r.IsAncestorOf(candidateID, entityID)
}

// FindConnected returns polymorphic references to the entities below a tag,
// direct children only or the whole subgraph. Models, when given, narrow the
// result to the named entity types.
func (r *TagRepository) FindConnected(tagID string, transitive bool, models ...string) ([]core.IdModelTuple, error) {
	ids, err := r.factory.store.Traverse(store.EdgeIsTagOf, tagID, store.Out, transitive)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(models))
	for _, m := range models {
		wanted[m] = true
	}

	var result []core.IdModelTuple
	for _, id := range ids {
		class, err := r.factory.store.ClassForID(id)
		if err != nil {
			r.logger.Warn("connected vertex outside schema", "id", id, "err", err)
			continue
		}
		if len(wanted) > 0 && !wanted[class] {
			continue
		}
		result = append(result, core.IdModelTuple{ID: id, Model: class})
	}
	return result, nil
}

// FindTagIdsConnectedToEntity returns the ids of the tags above an entity,
// either only the directly attached ones or the full ancestor closure.
func (r *TagRepository) FindTagIdsConnectedToEntity(entityID string, onlyDirect bool) ([]string, error) {
	ids, err := r.factory.store.Traverse(store.EdgeIsTagOf, entityID, store.In, !onlyDirect)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, id := range ids {
		class, err := r.factory.store.ClassForID(id)
		if err != nil || class != core.ModelTag {
			continue
		}
		result = append(result, id)
	}
	return result, nil
}

// TagFilters narrow a tag pagination.
type TagFilters struct {
	// Search keeps tags whose title contains the term, case-insensitively.
	Search string
}

// Paginate returns one page of tags ordered by title, narrowed by filters.
func (r *TagRepository) Paginate(page, pageSize int, filters TagFilters) (*PageResult[*core.Tag], error) {
	var filter func(t *core.Tag) bool
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		filter = func(t *core.Tag) bool {
			return strings.Contains(strings.ToLower(t.Title), needle)
		}
	}
	return r.Base.Paginate(page, pageSize, filter)
}

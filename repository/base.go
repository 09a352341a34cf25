package repository

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// Mapper converts between a domain entity and its stored record. Mappers are
// stateless; one instance per repository.
type Mapper[T core.Entity] interface {
	// Model returns the record class the mapper handles.
	Model() string
	// ToRecord writes the entity's fields into rec. Identity, version and
	// audit fields are handled by the base.
	ToRecord(e T, rec *store.Record)
	// FromRecord builds an entity from a stored record. Identity, version
	// and audit fields are handled by the base.
	FromRecord(rec *store.Record) T
}

// Base is the generic repository every model-specific repository embeds. It
// implements save with audit stamping and optimistic versioning, lookup,
// idempotent delete with edge detachment, counting and in-memory pagination.
type Base[T core.Entity] struct {
	factory *Factory
	mapper  Mapper[T]
	logger  *slog.Logger

	// less is the model's default sort order for FindAll and Paginate.
	less func(a, b T) bool

	// beforeSave validates the entity; a non-nil error aborts the save.
	beforeSave func(e T) error
	// afterDelete runs after record and edges are gone, for cascades and
	// index cleanup.
	afterDelete func(e T) error
}

func newBase[T core.Entity](f *Factory, mapper Mapper[T]) *Base[T] {
	return &Base[T]{
		factory: f,
		mapper:  mapper,
		logger:  f.logger.With("repository", mapper.Model()),
		less:    func(a, b T) bool { return a.ID() < b.ID() },
	}
}

// Model returns the model name this repository handles.
func (b *Base[T]) Model() string { return b.mapper.Model() }

// isZero reports whether e is the zero value (a nil entity pointer).
func isZero[T core.Entity](e T) bool {
	var zero T
	return any(e) == any(zero)
}

// Save persists the entity. An unsaved entity is inserted and receives its id
// and initial version; a saved one is updated with a compare-and-swap on its
// version, failing with store.ErrConflict when a concurrent writer got there
// first. Audit fields are stamped before writing.
func (b *Base[T]) Save(e T) error {
	if isZero[T](e) {
		return fmt.Errorf("%w: nil entity", store.ErrNotPersisted)
	}
	if b.beforeSave != nil {
		if err := b.beforeSave(e); err != nil {
			return err
		}
	}
	b.stampAudit(e)

	if e.ID() == "" {
		rec := store.NewRecord(b.mapper.Model())
		b.mapper.ToRecord(e, rec)
		auditToRecord(e, rec)
		if err := b.factory.store.Insert(rec); err != nil {
			return err
		}
		e.SetID(rec.ID)
		e.SetVersion(rec.Version)
		b.logger.Debug("inserted entity", "id", rec.ID)
		return nil
	}

	rec, err := b.factory.store.Load(e.ID())
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", store.ErrNotPersisted, e.ID())
	}
	if rec.Class != b.mapper.Model() {
		return fmt.Errorf("%w: %s is a %s, not a %s",
			store.ErrClassMismatch, e.ID(), rec.Class, b.mapper.Model())
	}

	// the entity's version wins over the freshly loaded one, so a stale
	// entity fails the compare-and-swap below
	rec.Version = e.Version()
	adoptStoredAudit(e, rec)
	b.mapper.ToRecord(e, rec)
	auditToRecord(e, rec)
	if err := b.factory.store.Update(rec); err != nil {
		return err
	}
	e.SetVersion(rec.Version)
	b.logger.Debug("updated entity", "id", rec.ID, "version", rec.Version)
	return nil
}

// Find looks up an entity by id. Returns the zero value and no error when no
// record exists behind a well-formed id; malformed ids fail with
// core.ErrInvalidIdentifier. A record of another class is treated as absent,
// with a warning.
func (b *Base[T]) Find(id string) (T, error) {
	var zero T
	if id == "" {
		return zero, nil
	}
	rec, err := b.factory.store.Load(id)
	if err != nil {
		return zero, err
	}
	if rec == nil {
		return zero, nil
	}
	if rec.Class != b.mapper.Model() {
		b.logger.Warn("record is not of expected class",
			"id", id, "want", b.mapper.Model(), "got", rec.Class)
		return zero, nil
	}
	return b.fromRecord(rec), nil
}

// FindByUID looks up an entity by its URL-safe identifier.
func (b *Base[T]) FindByUID(uid string) (T, error) {
	var zero T
	id, err := core.UIDToID(uid)
	if err != nil {
		return zero, err
	}
	return b.Find(id)
}

// FindAny implements Repository.
func (b *Base[T]) FindAny(id string) (core.Entity, error) {
	e, err := b.Find(id)
	if err != nil {
		return nil, err
	}
	if isZero[T](e) {
		return nil, nil
	}
	return e, nil
}

// DeleteAny implements Repository.
func (b *Base[T]) DeleteAny(id string) error {
	e, err := b.Find(id)
	if err != nil {
		return err
	}
	if isZero[T](e) {
		return nil
	}
	return b.Delete(e)
}

// Delete removes the entity, detaching every edge touching it first. Deleting
// an unsaved or already deleted entity is a no-op. The afterDelete hook of
// the concrete repository cascades to dependent records.
func (b *Base[T]) Delete(e T) error {
	if isZero[T](e) || e.ID() == "" {
		return nil
	}
	if err := b.factory.store.DeleteVertexEdges(e.ID()); err != nil {
		return err
	}
	if err := b.factory.store.DeleteRecord(e.ID()); err != nil {
		return err
	}
	if b.afterDelete != nil {
		if err := b.afterDelete(e); err != nil {
			return err
		}
	}
	b.logger.Debug("deleted entity", "id", e.ID())
	return nil
}

// Count returns the number of stored entities of this model.
func (b *Base[T]) Count() (int64, error) {
	return b.factory.store.Count(b.mapper.Model())
}

// FindAll returns every stored entity of this model in the model's default
// order.
func (b *Base[T]) FindAll() ([]T, error) {
	return b.findFiltered(nil)
}

// Paginate returns one page of entities in the model's default order,
// narrowed by an optional filter. Page numbers are 1-based and clamped into
// the valid range; a page size of zero or less falls back to DefaultPageSize.
func (b *Base[T]) Paginate(page, pageSize int, filter func(e T) bool) (*PageResult[T], error) {
	all, err := b.findFiltered(filter)
	if err != nil {
		return nil, err
	}
	return paginateSlice(all, page, pageSize), nil
}

// findFiltered scans the model's records, maps and filters them and sorts
// the result by the model's default order.
func (b *Base[T]) findFiltered(filter func(e T) bool) ([]T, error) {
	var result []T
	err := b.factory.store.Scan(b.mapper.Model(), func(rec *store.Record) error {
		e := b.fromRecord(rec)
		if filter == nil || filter(e) {
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		return b.less(result[i], result[j])
	})
	return result, nil
}

// fromRecord maps a record to an entity and fills identity, version and
// audit data.
func (b *Base[T]) fromRecord(rec *store.Record) T {
	e := b.mapper.FromRecord(rec)
	e.SetID(rec.ID)
	e.SetVersion(rec.Version)
	auditFromRecord(e, rec)
	return e
}

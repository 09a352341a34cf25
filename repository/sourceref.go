package repository

import (
	"sort"
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// Secondary indexes of source references. Both map a composite key of
// "<anchor id>|<reference id>" to the reference id, so a prefix scan on the
// anchor lists all its references.
const (
	srcRefByReferenceIndex = "srcrefbyref"
	srcRefBySourceIndex    = "srcrefbysrc"
)

// SourceReferenceRepository handles the join records between sources and
// annotatable entities. References carry a polymorphic tuple to their
// annotated entity; when that entity disappears, the reference is deleted
// with it.
type SourceReferenceRepository struct {
	*Base[*core.SourceReference]
}

type sourceReferenceMapper struct{}

func (sourceReferenceMapper) Model() string { return core.ModelSourceReference }

func (sourceReferenceMapper) ToRecord(sr *core.SourceReference, rec *store.Record) {
	rec.Set("source", sr.SourceID)
	rec.Set("reference", sr.Reference.ID)
	rec.Set("referenceModel", sr.Reference.Model)
	rec.Set("referenceText", sr.ReferenceText)
}

func (sourceReferenceMapper) FromRecord(rec *store.Record) *core.SourceReference {
	return &core.SourceReference{
		SourceID: rec.String("source"),
		Reference: core.IdModelTuple{
			ID:    rec.String("reference"),
			Model: rec.String("referenceModel"),
		},
		ReferenceText: rec.String("referenceText"),
	}
}

func newSourceReferenceRepository(f *Factory) *SourceReferenceRepository {
	r := &SourceReferenceRepository{Base: newBase[*core.SourceReference](f, sourceReferenceMapper{})}
	r.less = func(a, b *core.SourceReference) bool {
		return strings.ToLower(a.ReferenceText) < strings.ToLower(b.ReferenceText)
	}
	r.beforeSave = func(sr *core.SourceReference) error { return core.ValidateSourceReference(sr) }
	r.afterDelete = r.dropIndexEntries
	return r
}

func refIndexKey(anchorID, srID string) []byte {
	return []byte(anchorID + "|" + srID)
}

// Save persists the reference and keeps both back-pointer indexes in step.
func (r *SourceReferenceRepository) Save(sr *core.SourceReference) error {
	if err := core.ValidateSourceReference(sr); err != nil {
		return err
	}

	var old *core.SourceReference
	if sr.ID() != "" {
		var err error
		old, err = r.Find(sr.ID())
		if err != nil {
			return err
		}
	}

	if err := r.Base.Save(sr); err != nil {
		return err
	}

	if old != nil {
		if old.Reference.ID != sr.Reference.ID {
			if err := r.factory.store.DeleteIndex(srcRefByReferenceIndex, refIndexKey(old.Reference.ID, sr.ID())); err != nil {
				return err
			}
		}
		if old.SourceID != sr.SourceID {
			if err := r.factory.store.DeleteIndex(srcRefBySourceIndex, refIndexKey(old.SourceID, sr.ID())); err != nil {
				return err
			}
		}
	}
	if err := r.factory.store.SetIndex(srcRefByReferenceIndex, refIndexKey(sr.Reference.ID, sr.ID()), sr.ID()); err != nil {
		return err
	}
	return r.factory.store.SetIndex(srcRefBySourceIndex, refIndexKey(sr.SourceID, sr.ID()), sr.ID())
}

// dropIndexEntries removes the back-pointer entries of a deleted reference.
func (r *SourceReferenceRepository) dropIndexEntries(sr *core.SourceReference) error {
	if err := r.factory.store.DeleteIndex(srcRefByReferenceIndex, refIndexKey(sr.Reference.ID, sr.ID())); err != nil {
		return err
	}
	return r.factory.store.DeleteIndex(srcRefBySourceIndex, refIndexKey(sr.SourceID, sr.ID()))
}

// findByIndex scans one back-pointer index for an anchor id and loads the
// references, sorted by reference text.
func (r *SourceReferenceRepository) findByIndex(index, anchorID string) ([]*core.SourceReference, error) {
	if anchorID == "" {
		return nil, nil
	}

	var ids []string
	err := r.factory.store.ScanIndex(index, []byte(anchorID+"|"), func(_ []byte, id string) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result []*core.SourceReference
	for _, id := range ids {
		sr, err := r.Find(id)
		if err != nil {
			return nil, err
		}
		if sr != nil {
			result = append(result, sr)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return r.less(result[i], result[j]) })
	return result, nil
}

// FindByReference returns one page of the references annotating an entity.
func (r *SourceReferenceRepository) FindByReference(referenceID string, page, pageSize int) (*PageResult[*core.SourceReference], error) {
	refs, err := r.findByIndex(srcRefByReferenceIndex, referenceID)
	if err != nil {
		return nil, err
	}
	return paginateSlice(refs, page, pageSize), nil
}

// FindBySource returns one page of the references pointing out of a source.
func (r *SourceReferenceRepository) FindBySource(sourceID string, page, pageSize int) (*PageResult[*core.SourceReference], error) {
	refs, err := r.findByIndex(srcRefBySourceIndex, sourceID)
	if err != nil {
		return nil, err
	}
	return paginateSlice(refs, page, pageSize), nil
}

// DeleteByReference deletes every reference annotating the given entity.
// This is the cascade path taken when an annotatable record is deleted.
func (r *SourceReferenceRepository) DeleteByReference(referenceID string) error {
	refs, err := r.findByIndex(srcRefByReferenceIndex, referenceID)
	if err != nil {
		return err
	}
	for _, sr := range refs {
		if err := r.Delete(sr); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBySource deletes every reference pointing out of a source. Taken
// when the source itself is deleted.
func (r *SourceReferenceRepository) DeleteBySource(sourceID string) error {
	refs, err := r.findByIndex(srcRefBySourceIndex, sourceID)
	if err != nil {
		return err
	}
	for _, sr := range refs {
		if err := r.Delete(sr); err != nil {
			return err
		}
	}
	return nil
}

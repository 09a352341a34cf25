package repository

import (
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// SourceRepository handles bibliographic sources. Deleting a source removes
// the references pointing out of it along with the usual annotation cascade.
type SourceRepository struct {
	*Base[*core.Source]
}

type sourceMapper struct{}

func (sourceMapper) Model() string { return core.ModelSource }

func (sourceMapper) ToRecord(s *core.Source, rec *store.Record) {
	rec.Set("shortTitle", s.ShortTitle)
	rec.Set("longTitle", s.LongTitle)
	rec.Set("citation", s.Citation)
	rec.Set("description", s.Description)
}

func (sourceMapper) FromRecord(rec *store.Record) *core.Source {
	return &core.Source{
		ShortTitle:  rec.String("shortTitle"),
		LongTitle:   rec.String("longTitle"),
		Citation:    rec.String("citation"),
		Description: rec.String("description"),
	}
}

func newSourceRepository(f *Factory) *SourceRepository {
	r := &SourceRepository{Base: newBase[*core.Source](f, sourceMapper{})}
	r.less = func(a, b *core.Source) bool {
		return strings.ToLower(a.ShortTitle) < strings.ToLower(b.ShortTitle)
	}
	r.afterDelete = func(s *core.Source) error {
		if err := f.SourceReferences().DeleteBySource(s.ID()); err != nil {
			return err
		}
		return cascadeAnnotations(f, s.ID())
	}
	return r
}

// SourceFilters narrow a source pagination.
type SourceFilters struct {
	// Search keeps sources whose short or long title contains the term,
	// case-insensitively.
	Search string
}

// Paginate returns one page of sources ordered by short title, narrowed by
// filters.
func (r *SourceRepository) Paginate(page, pageSize int, filters SourceFilters) (*PageResult[*core.Source], error) {
	var filter func(s *core.Source) bool
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		filter = func(s *core.Source) bool {
			return strings.Contains(strings.ToLower(s.ShortTitle), needle) ||
				strings.Contains(strings.ToLower(s.LongTitle), needle)
		}
	}
	return r.Base.Paginate(page, pageSize, filter)
}

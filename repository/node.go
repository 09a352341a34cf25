package repository

import (
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// NodeRepository handles the catalogued entities of the research graph.
// Nodes are annotatable; deleting one detaches its tags, comments and files
// and removes its source references.
type NodeRepository struct {
	*Base[*core.Node]
}

type nodeMapper struct{}

func (nodeMapper) Model() string { return core.ModelNode }

func (nodeMapper) ToRecord(n *core.Node, rec *store.Record) {
	rec.Set("title", n.Title)
	rec.Set("alternativeTitles", n.AlternativeTitles)
	rec.Set("description", n.Description)
	rec.Set("descriptionMarkup", n.DescriptionMarkup)
}

func (nodeMapper) FromRecord(rec *store.Record) *core.Node {
	return &core.Node{
		Title:             rec.String("title"),
		AlternativeTitles: rec.String("alternativeTitles"),
		Description:       rec.String("description"),
		DescriptionMarkup: rec.String("descriptionMarkup"),
	}
}

func newNodeRepository(f *Factory) *NodeRepository {
	r := &NodeRepository{Base: newBase[*core.Node](f, nodeMapper{})}
	r.less = func(a, b *core.Node) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	r.afterDelete = func(n *core.Node) error {
		return cascadeAnnotations(f, n.ID())
	}
	return r
}

// NodeFilters narrow a node pagination.
type NodeFilters struct {
	// Search keeps nodes whose title or alternative titles contain the
	// term, case-insensitively.
	Search string
	// Tags keeps nodes directly tagged with at least one of the given tag
	// ids.
	Tags []string
}

// Paginate returns one page of nodes ordered by title, narrowed by filters.
func (r *NodeRepository) Paginate(page, pageSize int, filters NodeFilters) (*PageResult[*core.Node], error) {
	var predicates []func(n *core.Node) bool

	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		predicates = append(predicates, func(n *core.Node) bool {
			return strings.Contains(strings.ToLower(n.Title), needle) ||
				strings.Contains(strings.ToLower(n.AlternativeTitles), needle)
		})
	}
	if len(filters.Tags) > 0 {
		wanted := make(map[string]bool, len(filters.Tags))
		for _, id := range filters.Tags {
			wanted[id] = true
		}
		tags := r.factory.Tags()
		predicates = append(predicates, func(n *core.Node) bool {
			ids, err := tags.FindTagIdsConnectedToEntity(n.ID(), true)
			if err != nil {
				return false
			}
			for _, id := range ids {
				if wanted[id] {
					return true
				}
			}
			return false
		})
	}

	var filter func(n *core.Node) bool
	if len(predicates) > 0 {
		filter = func(n *core.Node) bool {
			for _, p := range predicates {
				if !p(n) {
					return false
				}
			}
			return true
		}
	}
	return r.Base.Paginate(page, pageSize, filter)
}

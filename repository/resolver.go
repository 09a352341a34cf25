package repository

import (
	"github.com/mkalus/segrada-sub000/core"
)

// Resolver resolves polymorphic references through the factory's
// repositories. It degrades to nil instead of failing: invalid tuples,
// unknown models and vanished records all resolve to nothing, with a warning
// in the log. Callers render a resolved nil as an absent reference.
type Resolver struct {
	factory *Factory
}

var _ core.Resolver = (*Resolver)(nil)

// Resolve returns the entity behind a tuple, or nil.
func (r *Resolver) Resolve(tuple core.IdModelTuple) core.Entity {
	if !tuple.Valid() {
		return nil
	}
	repo, ok := r.factory.ByModel(tuple.Model)
	if !ok {
		r.factory.logger.Warn("cannot resolve reference to unknown model",
			"model", tuple.Model, "id", tuple.ID)
		return nil
	}
	e, err := repo.FindAny(tuple.ID)
	if err != nil {
		r.factory.logger.Warn("error resolving reference",
			"model", tuple.Model, "id", tuple.ID, "err", err)
		return nil
	}
	if e == nil {
		r.factory.logger.Warn("reference points to missing record",
			"model", tuple.Model, "id", tuple.ID)
		return nil
	}
	return e
}

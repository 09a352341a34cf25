package repository

import (
	"log/slog"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// Repository is the model-agnostic surface every concrete repository
// provides. It is what the factory registry and the resolver work with.
type Repository interface {
	// Model returns the model name this repository handles.
	Model() string
	// FindAny looks up an entity by id, untyped. Returns (nil, nil) if no
	// record exists behind a well-formed id.
	FindAny(id string) (core.Entity, error)
	// DeleteAny deletes an entity by id, untyped, detaching its edges and
	// cascading annotations where the model calls for it.
	DeleteAny(id string) error
}

// registry is the closed set of repository constructors, keyed by model name.
// Adding a model means adding a constructor here; nothing is discovered at
// runtime. Filled in init because the constructors reach back into the
// factory, which reads the registry.
var registry map[string]func(f *Factory) Repository

func init() {
	registry = map[string]func(f *Factory) Repository{
		core.ModelTag:             func(f *Factory) Repository { return newTagRepository(f) },
		core.ModelNode:            func(f *Factory) Repository { return newNodeRepository(f) },
		core.ModelSource:          func(f *Factory) Repository { return newSourceRepository(f) },
		core.ModelSourceReference: func(f *Factory) Repository { return newSourceReferenceRepository(f) },
		core.ModelComment:         func(f *Factory) Repository { return newCommentRepository(f) },
		core.ModelFile:            func(f *Factory) Repository { return newFileRepository(f) },
		core.ModelUser:            func(f *Factory) Repository { return newUserRepository(f) },
	}
}

// Factory creates and caches repositories over one store. A factory is bound
// to an acting identity; audit stamps of everything saved through it point to
// that identity's user. Factories are cheap, create one per request or unit
// of work.
type Factory struct {
	store    store.Store
	identity core.Identity
	logger   *slog.Logger

	repos    map[string]Repository
	resolver *Resolver
}

// FactoryOption configures a Factory.
type FactoryOption func(f *Factory)

// WithLogger overrides the factory's logger.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a repository factory over a store, acting as the given
// identity. The zero identity is anonymous: audit stamps then carry no user
// back-reference.
func NewFactory(st store.Store, identity core.Identity, opts ...FactoryOption) *Factory {
	f := &Factory{
		store:    st,
		identity: identity,
		logger:   slog.Default(),
		repos:    make(map[string]Repository),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.resolver = &Resolver{factory: f}
	return f
}

// Store returns the underlying graph store.
func (f *Factory) Store() store.Store { return f.store }

// Identity returns the acting identity of this session.
func (f *Factory) Identity() core.Identity { return f.identity }

// Resolver returns the polymorphic reference resolver for this session.
func (f *Factory) Resolver() *Resolver { return f.resolver }

// ByModel returns the repository for a model name, or false for a model
// outside the closed registry.
func (f *Factory) ByModel(model string) (Repository, bool) {
	if r, ok := f.repos[model]; ok {
		return r, true
	}
	build, ok := registry[model]
	if !ok {
		return nil, false
	}
	r := build(f)
	f.repos[model] = r
	return r, true
}

// produce looks up a registered model, panicking on registry bugs. Only the
// typed accessors below use it; their models are always registered.
func (f *Factory) produce(model string) Repository {
	r, ok := f.ByModel(model)
	if !ok {
		panic("repository: model not registered: " + model)
	}
	return r
}

// Tags returns the tag repository of this session.
func (f *Factory) Tags() *TagRepository {
	return f.produce(core.ModelTag).(*TagRepository)
}

// Nodes returns the node repository of this session.
func (f *Factory) Nodes() *NodeRepository {
	return f.produce(core.ModelNode).(*NodeRepository)
}

// Sources returns the source repository of this session.
func (f *Factory) Sources() *SourceRepository {
	return f.produce(core.ModelSource).(*SourceRepository)
}

// SourceReferences returns the source reference repository of this session.
func (f *Factory) SourceReferences() *SourceReferenceRepository {
	return f.produce(core.ModelSourceReference).(*SourceReferenceRepository)
}

// Comments returns the comment repository of this session.
func (f *Factory) Comments() *CommentRepository {
	return f.produce(core.ModelComment).(*CommentRepository)
}

// Files returns the file repository of this session.
func (f *Factory) Files() *FileRepository {
	return f.produce(core.ModelFile).(*FileRepository)
}

// Users returns the user repository of this session.
func (f *Factory) Users() *UserRepository {
	return f.produce(core.ModelUser).(*UserRepository)
}

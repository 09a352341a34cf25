package integrity

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/repository"
	"github.com/mkalus/segrada-sub000/store"
)

// Finding kinds.
const (
	// KindDanglingSourceReference marks a source reference whose source or
	// referenced entity no longer exists.
	KindDanglingSourceReference = "dangling-source-reference"
	// KindMissingEdgeEndpoint marks an edge with at least one endpoint
	// record missing.
	KindMissingEdgeEndpoint = "missing-edge-endpoint"
	// KindTagCycle marks a tag that is part of a cycle in the tag
	// hierarchy.
	KindTagCycle = "tag-cycle"
	// KindDanglingAuditReference marks an entity whose creator or modifier
	// points to a deleted user.
	KindDanglingAuditReference = "dangling-audit-reference"
)

// Finding is one detected inconsistency.
type Finding struct {
	Kind    string
	Subject string
	Detail  string
}

// Report is the outcome of one integrity run.
type Report struct {
	// Checked counts the records and edges visited.
	Checked int64
	// Findings are sorted by kind, then subject.
	Findings []Finding
}

// Clean reports whether the run found nothing.
func (r *Report) Clean() bool { return len(r.Findings) == 0 }

// Checker runs integrity checks over one repository session.
type Checker struct {
	factory *repository.Factory
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(c *Checker) error

// WithPoolSize sets the worker pool size for concurrent checks.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Checker) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChecker creates an integrity checker over a repository factory.
func NewChecker(factory *repository.Factory, opts ...Option) (*Checker, error) {
	if factory == nil {
		return nil, ErrFactoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Checker{
		factory: factory,
		pool:    pool,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}
	return c, nil
}

// Release releases the worker pool. The checker should not be used after
// calling Release.
func (c *Checker) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// collector gathers findings from concurrent checks.
type collector struct {
	mu       sync.Mutex
	checked  int64
	findings []Finding
	err      error
}

func (col *collector) add(f Finding) {
	col.mu.Lock()
	col.findings = append(col.findings, f)
	col.mu.Unlock()
}

func (col *collector) count(n int64) {
	col.mu.Lock()
	col.checked += n
	col.mu.Unlock()
}

func (col *collector) fail(err error) {
	col.mu.Lock()
	if col.err == nil {
		col.err = err
	}
	col.mu.Unlock()
}

// Run executes all checks and returns the combined report. The context only
// stops the scan between items; already submitted work finishes.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	col := &collector{}
	var wg sync.WaitGroup

	checks := []func(ctx context.Context, col *collector) error{
		c.checkSourceReferences,
		c.checkEdges,
		c.checkTagCycles,
		c.checkAuditReferences,
	}
	for _, check := range checks {
		check := check
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			if err := check(ctx, col); err != nil {
				col.fail(err)
			}
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	if col.err != nil {
		return nil, col.err
	}
	sort.Slice(col.findings, func(i, j int) bool {
		if col.findings[i].Kind != col.findings[j].Kind {
			return col.findings[i].Kind < col.findings[j].Kind
		}
		return col.findings[i].Subject < col.findings[j].Subject
	})
	c.logger.Info("integrity run finished",
		"checked", col.checked, "findings", len(col.findings))
	return &Report{Checked: col.checked, Findings: col.findings}, nil
}

// checkSourceReferences verifies that every source reference points at an
// existing source and an existing, correctly typed entity.
func (c *Checker) checkSourceReferences(ctx context.Context, col *collector) error {
	st := c.factory.Store()
	refs, err := c.factory.SourceReferences().FindAll()
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		col.count(1)

		rec, err := st.Load(ref.SourceID)
		if err != nil || rec == nil || rec.Class != core.ModelSource {
			col.add(Finding{
				Kind:    KindDanglingSourceReference,
				Subject: ref.ID(),
				Detail:  "source " + ref.SourceID + " missing",
			})
			continue
		}

		rec, err = st.Load(ref.Reference.ID)
		if err != nil || rec == nil || rec.Class != ref.Reference.Model {
			col.add(Finding{
				Kind:    KindDanglingSourceReference,
				Subject: ref.ID(),
				Detail:  "referenced " + ref.Reference.Model + " " + ref.Reference.ID + " missing",
			})
		}
	}
	return nil
}

// checkEdges verifies that both endpoints of every edge still exist.
func (c *Checker) checkEdges(ctx context.Context, col *collector) error {
	st := c.factory.Store()
	for _, edgeType := range store.EdgeTypes() {
		err := st.ScanEdges(edgeType, func(edge store.Edge) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col.count(1)

			for _, id := range []string{edge.Out, edge.In} {
				rec, err := st.Load(id)
				if err != nil || rec == nil {
					col.add(Finding{
						Kind:    KindMissingEdgeEndpoint,
						Subject: id,
						Detail:  edgeType + " edge " + edge.Out + " -> " + edge.In,
					})
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// checkTagCycles looks for cycles among the tag-to-tag connections. The
// mapping layer rejects them on connect, so a hit means the store was
// modified out of band.
func (c *Checker) checkTagCycles(ctx context.Context, col *collector) error {
	st := c.factory.Store()

	// adjacency restricted to tag vertices
	children := make(map[string][]string)
	err := st.ScanEdges(store.EdgeIsTagOf, func(edge store.Edge) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		outClass, err := st.ClassForID(edge.Out)
		if err != nil || outClass != core.ModelTag {
			return nil
		}
		inClass, err := st.ClassForID(edge.In)
		if err != nil || inClass != core.ModelTag {
			return nil
		}
		children[edge.Out] = append(children[edge.Out], edge.In)
		return nil
	})
	if err != nil {
		return err
	}

	const (
		inProgress = 1
		done       = 2
	)
	state := make(map[string]int)

	var visit func(id string)
	visit = func(id string) {
		switch state[id] {
		case done:
			return
		case inProgress:
			// back edge: this vertex closes a cycle
			col.add(Finding{
				Kind:    KindTagCycle,
				Subject: id,
				Detail:  "tag participates in a hierarchy cycle",
			})
			return
		}
		state[id] = inProgress
		for _, child := range children[id] {
			visit(child)
		}
		state[id] = done
	}

	for id := range children {
		col.count(1)
		visit(id)
	}
	return nil
}

// checkAuditReferences verifies that creator and modifier stamps still point
// at user records.
func (c *Checker) checkAuditReferences(ctx context.Context, col *collector) error {
	st := c.factory.Store()
	for _, model := range core.Models() {
		err := st.Scan(model, func(rec *store.Record) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col.count(1)

			for _, field := range []string{"creator", "modifier"} {
				id := rec.String(field)
				if id == "" {
					continue
				}
				userRec, err := st.Load(id)
				if err != nil || userRec == nil || userRec.Class != core.ModelUser {
					col.add(Finding{
						Kind:    KindDanglingAuditReference,
						Subject: rec.ID,
						Detail:  field + " " + id + " missing",
					})
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

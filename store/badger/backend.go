package badger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

const defaultSequenceBandwidth = 100

// Graph implements store.Store on a BadgerDB instance.
type Graph struct {
	db        *badger.DB
	logger    *slog.Logger
	classes   []store.Class
	byName    map[string]uint32
	byCluster map[uint32]string

	seqMu sync.Mutex
	seqs  map[uint32]*badger.Sequence
}

var _ store.Store = (*Graph)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a graph store at the given path, creating the directory if
// needed. An empty path with inMemory true opens a purely in-memory store.
// The class list is the closed vertex schema; every cluster must be unique.
func Open(filePath string, inMemory bool, classes []store.Class) (*Graph, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	byName := make(map[string]uint32, len(classes))
	byCluster := make(map[uint32]string, len(classes))
	for _, c := range classes {
		if c.Name == "" || c.Cluster == 0 {
			return nil, fmt.Errorf("%w: bad class definition %+v", store.ErrUnknownClass, c)
		}
		if _, ok := byName[c.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate class %s", store.ErrUnknownClass, c.Name)
		}
		if _, ok := byCluster[c.Cluster]; ok {
			return nil, fmt.Errorf("%w: duplicate cluster %d", store.ErrUnknownClass, c.Cluster)
		}
		byName[c.Name] = c.Cluster
		byCluster[c.Cluster] = c.Name
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Graph{
		db:        db,
		logger:    slog.Default(),
		classes:   append([]store.Class(nil), classes...),
		byName:    byName,
		byCluster: byCluster,
		seqs:      make(map[uint32]*badger.Sequence),
	}, nil
}

// Close releases all sequences and closes the database.
func (g *Graph) Close() error {
	g.seqMu.Lock()
	for _, seq := range g.seqs {
		if err := seq.Release(); err != nil {
			g.logger.Error("error releasing sequence", "err", err)
		}
	}
	g.seqs = make(map[uint32]*badger.Sequence)
	g.seqMu.Unlock()

	return g.db.Close()
}

// IsClosed returns true if the database is closed.
func (g *Graph) IsClosed() bool {
	return g.db.IsClosed()
}

// Classes returns the registered vertex classes.
func (g *Graph) Classes() []store.Class {
	return append([]store.Class(nil), g.classes...)
}

// ClassForID derives the class name from a record id.
func (g *Graph) ClassForID(id string) (string, error) {
	cluster, _, err := core.ParseID(id)
	if err != nil {
		return "", err
	}
	name, ok := g.byCluster[cluster]
	if !ok {
		return "", fmt.Errorf("%w: cluster %d", store.ErrUnknownClass, cluster)
	}
	return name, nil
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction; fn must commit it.
// The transaction is automatically discarded if fn returns an error.
func (g *Graph) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := g.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// nextPosition draws the next record position for a cluster.
func (g *Graph) nextPosition(cluster uint32) (uint64, error) {
	g.seqMu.Lock()
	seq, ok := g.seqs[cluster]
	if !ok {
		var err error
		seq, err = g.db.GetSequence(makeSequenceKey(cluster), defaultSequenceBandwidth)
		if err != nil {
			g.seqMu.Unlock()
			return 0, err
		}
		g.seqs[cluster] = seq
	}
	g.seqMu.Unlock()

	pos, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if pos == 0 {
		pos, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return pos, nil
}

// cluster resolves a class name, failing with ErrUnknownClass.
func (g *Graph) cluster(class string) (uint32, error) {
	c, ok := g.byName[class]
	if !ok {
		return 0, fmt.Errorf("%w: %s", store.ErrUnknownClass, class)
	}
	return c, nil
}

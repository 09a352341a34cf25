// Copyright 2026 Maximilian Kalus [segrada@auxnet.de]
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package segrada is the persistence layer of the catalogue: an object-graph
// mapping over an embedded graph/document store. Open a Database once per
// process, then create one repository session per request or unit of work.
package segrada

import (
	"log/slog"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/repository"
	"github.com/mkalus/segrada-sub000/store"
	"github.com/mkalus/segrada-sub000/store/badger"
)

// DefaultClasses is the vertex schema of the catalogue. Cluster numbers are
// part of every record id, so they must never change for an existing
// database.
func DefaultClasses() []store.Class {
	return []store.Class{
		{Name: core.ModelTag, Cluster: 1},
		{Name: core.ModelNode, Cluster: 2},
		{Name: core.ModelSource, Cluster: 3},
		{Name: core.ModelSourceReference, Cluster: 4},
		{Name: core.ModelComment, Cluster: 5},
		{Name: core.ModelFile, Cluster: 6},
		{Name: core.ModelUser, Cluster: 7},
	}
}

// Database is one open catalogue store. Safe for concurrent use; sessions
// created from it share the store but carry their own identity.
type Database struct {
	store  store.Store
	logger *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(db *Database)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(db *Database) {
		if logger == nil {
			logger = slog.Default()
		}
		db.logger = logger
	}
}

// Open opens the catalogue database at filePath, creating it if needed.
func Open(filePath string, opts ...DatabaseOption) (*Database, error) {
	st, err := badger.Open(filePath, false, DefaultClasses())
	if err != nil {
		return nil, err
	}
	return newDatabase(st, opts...), nil
}

// OpenInMemory opens a purely in-memory catalogue database, mainly for
// tests.
func OpenInMemory(opts ...DatabaseOption) (*Database, error) {
	st, err := badger.Open("", true, DefaultClasses())
	if err != nil {
		return nil, err
	}
	return newDatabase(st, opts...), nil
}

func newDatabase(st store.Store, opts ...DatabaseOption) *Database {
	db := &Database{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Session creates a repository factory bound to the acting identity. The
// zero identity is anonymous.
func (db *Database) Session(identity core.Identity) *repository.Factory {
	return repository.NewFactory(db.store, identity, repository.WithLogger(db.logger))
}

// Store returns the underlying graph store.
func (db *Database) Store() store.Store { return db.store }

// Close closes the underlying store.
func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

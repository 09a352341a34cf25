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


// Package core holds the domain model of the catalogue graph: entities,
// identifiers, audit data and validation rules. It has no persistence
// dependencies; repositories map these types onto the store.
package core

// Model names of the persistable entity types. The set is closed: repositories
// and the resolver only handle models listed here.
const (
	ModelTag             = "Tag"
	ModelNode            = "Node"
	ModelSource          = "Source"
	ModelSourceReference = "SourceReference"
	ModelComment         = "Comment"
	ModelFile            = "File"
	ModelUser            = "User"
)

// Models returns all known model names.
func Models() []string {
	return []string{
		ModelTag,
		ModelNode,
		ModelSource,
		ModelSourceReference,
		ModelComment,
		ModelFile,
		ModelUser,
	}
}

// Entity is implemented by every persistable domain type.
type Entity interface {
	// ID returns the record id, or "" if the entity has not been saved.
	ID() string
	SetID(id string)
	// Version is the optimistic concurrency counter, 0 if unsaved.
	Version() int
	SetVersion(v int)
	// UID returns the URL-safe form of the id, "" if unsaved.
	UID() string
	// Model returns the entity's model name.
	Model() string
}

// EntityBase carries identity and version for embedding in entity types.
type EntityBase struct {
	id      string
	uid     string
	version int
}

func (b *EntityBase) ID() string { return b.id }

// SetID sets the record id and invalidates the cached uid.
func (b *EntityBase) SetID(id string) {
	b.id = id
	b.uid = ""
}

func (b *EntityBase) Version() int     { return b.version }
func (b *EntityBase) SetVersion(v int) { b.version = v }

// UID derives the URL-safe identifier from the record id, caching the result.
// Returns "" for unsaved entities.
func (b *EntityBase) UID() string {
	if b.uid == "" && b.id != "" {
		uid, err := IDToUID(b.id)
		if err != nil {
			return ""
		}
		b.uid = uid
	}
	return b.uid
}

// IdModelTuple is a polymorphic reference: a record id together with the model
// name needed to resolve it through the right repository.
type IdModelTuple struct {
	ID    string
	Model string
}

// Valid reports whether both parts of the tuple are set.
func (t IdModelTuple) Valid() bool {
	return t.ID != "" && t.Model != ""
}

// Tuple builds the polymorphic reference for a persisted entity.
func Tuple(e Entity) IdModelTuple {
	if e == nil {
		return IdModelTuple{}
	}
	return IdModelTuple{ID: e.ID(), Model: e.Model()}
}

// Resolver turns polymorphic references back into entities. Resolution is
// null-degrading: an invalid tuple, an unknown model or a missing record all
// yield nil, never an error.
type Resolver interface {
	Resolve(tuple IdModelTuple) Entity
}

// Identity is the acting user of a repository session. The zero value is the
// anonymous identity.
type Identity struct {
	UserID string
}

// Authenticated reports whether the identity names a stored user.
func (i Identity) Authenticated() bool { return i.UserID != "" }

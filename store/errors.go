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


package store

import "errors"

var (
	// ErrConflict indicates an optimistic version mismatch on update: the
	// record changed since it was read. The caller decides whether to
	// reload and retry.
	ErrConflict = errors.New("version conflict")

	// ErrUnknownClass indicates a class name or cluster outside the
	// registered schema.
	ErrUnknownClass = errors.New("unknown class")

	// ErrClassMismatch indicates a record loaded under an id whose cluster
	// belongs to a different class than expected.
	ErrClassMismatch = errors.New("record class mismatch")

	// ErrNotPersisted indicates an operation that requires a saved record
	// was called with an empty id.
	ErrNotPersisted = errors.New("record not persisted")

	// ErrSerializationFailed indicates a codec failure on a stored value.
	ErrSerializationFailed = errors.New("serialization failed")
)

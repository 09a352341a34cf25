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


// Package store defines the graph/document store abstraction the mapping
// layer is built on, plus the value codec shared by its implementations.
//
// A store holds schema-flexible records (vertices) grouped into registered
// classes, directed typed edges between them, and secondary indexes that
// repositories maintain for their own lookups. Record ids have the shape
// "#<cluster>:<position>"; the cluster identifies the class, the position is
// assigned from a per-class sequence on insert.
//
// # Consistency
//
// Single store calls are atomic. Updates are guarded by a version
// compare-and-swap (ErrConflict on stale writes), edge creation is
// deduplicated per ordered vertex pair, and SetIndexIfAbsent provides an
// atomic claim primitive for unique keys. Multi-call sequences (a path check
// followed by an edge create) are NOT transactional; callers that need a
// stronger guarantee must serialize at their level.
package store

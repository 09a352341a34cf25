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


// Package repository maps the domain entities of package core onto the graph
// store. A Factory is one session over the store: it carries the acting
// identity, caches one repository instance per model, and hands out a
// Resolver for polymorphic references.
//
// Every repository embeds the generic base, which provides save with
// optimistic versioning and audit stamping, lookup, idempotent delete with
// edge detachment, counting and pagination. Model-specific repositories add
// the tag hierarchy, the annotation edges and the source reference indexes on
// top.
package repository

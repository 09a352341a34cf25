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


package repository

import "errors"

var (
	// ErrCircularReference indicates a tag connection that would close a
	// cycle in the tag hierarchy. This is a user-facing validation failure,
	// not a system fault; no edge is created.
	ErrCircularReference = errors.New("circular tag connection")

	// ErrDuplicateTitle indicates a tag save that would produce a second
	// tag with the same normalized title.
	ErrDuplicateTitle = errors.New("duplicate tag title")
)

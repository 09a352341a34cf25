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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidIdentifier indicates a malformed record id or uid string.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidTag indicates a Tag failed validation.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidComment indicates a Comment failed validation.
	ErrInvalidComment = errors.New("invalid comment")

	// ErrInvalidFile indicates a File failed validation.
	ErrInvalidFile = errors.New("invalid file")

	// ErrInvalidSourceReference indicates a SourceReference failed validation.
	ErrInvalidSourceReference = errors.New("invalid source reference")

	// ErrEmptyTitle indicates a required title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyText indicates the comment text is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyFilename indicates the file name is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrDanglingReference indicates a polymorphic reference with a missing
	// id or model name.
	ErrDanglingReference = errors.New("incomplete polymorphic reference")
)

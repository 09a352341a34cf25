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

import "fmt"

// ValidateTag validates a Tag according to domain rules.
//
// Validation rules:
//   - Title must not be empty (the slug of an empty title would collide)
//
// NOT validated:
//   - Audit fields (populated by the repository on save)
//   - ID ("" is valid for unsaved tags)
func ValidateTag(tag *Tag) error {
	if tag == nil {
		return fmt.Errorf("%w: tag is nil", ErrInvalidTag)
	}
	if tag.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTag, ErrEmptyTitle)
	}
	return nil
}

// ValidateComment validates a Comment according to domain rules.
func ValidateComment(comment *Comment) error {
	if comment == nil {
		return fmt.Errorf("%w: comment is nil", ErrInvalidComment)
	}
	if comment.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidComment, ErrEmptyText)
	}
	return nil
}

// ValidateFile validates a File according to domain rules.
func ValidateFile(file *File) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidFile)
	}
	if file.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFile, ErrEmptyFilename)
	}
	return nil
}

// ValidateSourceReference validates a SourceReference according to domain
// rules. Both the strong source link and the polymorphic reference must be
// set; the referenced records are not checked for existence here.
func ValidateSourceReference(ref *SourceReference) error {
	if ref == nil {
		return fmt.Errorf("%w: source reference is nil", ErrInvalidSourceReference)
	}
	if ref.SourceID == "" {
		return fmt.Errorf("%w: source id missing", ErrInvalidSourceReference)
	}
	if !ref.Reference.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidSourceReference, ErrDanglingReference)
	}
	return nil
}

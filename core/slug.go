package core

import "github.com/gosimple/slug"

// Sluggify normalizes a title to its slug form. Slugs are what tag titles are
// matched on, which makes title lookup case-insensitive and stable across
// diacritics.
func Sluggify(s string) string {
	return slug.Make(s)
}

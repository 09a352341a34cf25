package core

import (
	"fmt"
	"regexp"
	"strconv"
)

// Record ids have the form "#<cluster>:<position>", uids replace the
// punctuation with a dash so they survive in URLs: "<cluster>-<position>".
// The two forms are a bijection.

var (
	idPattern  = regexp.MustCompile(`^#(\d+):(\d+)$`)
	uidPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// IDToUID converts a record id to its URL-safe form.
func IDToUID(id string) (string, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return m[1] + "-" + m[2], nil
}

// UIDToID converts a URL-safe identifier back to the record id.
func UIDToID(uid string) (string, error) {
	m := uidPattern.FindStringSubmatch(uid)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, uid)
	}
	return "#" + m[1] + ":" + m[2], nil
}

// ValidID reports whether id is a well-formed record id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ParseID splits a record id into its cluster and position.
func ParseID(id string) (uint32, uint64, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	cluster, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	position, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return uint32(cluster), position, nil
}

// FormatID builds a record id from cluster and position.
func FormatID(cluster uint32, position uint64) string {
	return "#" + strconv.FormatUint(uint64(cluster), 10) + ":" + strconv.FormatUint(position, 10)
}

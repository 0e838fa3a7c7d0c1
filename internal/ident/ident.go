// Package ident issues identifiers for new catalog entries.
package ident

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

// New returns a time-ordered UUIDv7 string. It falls back to a random v4
// when the clock sequence cannot be read.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Sequence returns a deterministic generator yielding prefix-1, prefix-2, ...
// Intended for tests and fixtures.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

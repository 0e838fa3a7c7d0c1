package ident

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 500; i++ {
		id := New()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		if prev != "" {
			assert.True(t, prev < id, "expected %s < %s", prev, id)
		}
		prev = id
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence("item")
	assert.Equal(t, "item-1", gen())
	assert.Equal(t, "item-2", gen())
	for i := 0; i < 8; i++ {
		gen()
	}
	assert.Equal(t, "item-11", gen())
}

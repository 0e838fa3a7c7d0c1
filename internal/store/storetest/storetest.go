// Package storetest holds the backend compliance suite and an in-memory
// store for tests of packages that persist through store.Store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tierlist/internal/store"
)

// Run exercises a Store implementation. setup must return a fresh, empty
// store; Run closes it.
func Run(t *testing.T, setup func(t *testing.T) store.Store) {
	t.Run("LoadMissing", func(t *testing.T) {
		s := setup(t)
		defer s.Close()

		_, err := s.Load(context.Background())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("SaveThenLoad", func(t *testing.T) {
		s := setup(t)
		defer s.Close()
		ctx := context.Background()

		blob := []byte(`[{"id":"a","title":"Naruto"}]`)
		require.NoError(t, s.Save(ctx, blob))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		s := setup(t)
		defer s.Close()
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, []byte(`[{"id":"a"}]`)))
		require.NoError(t, s.Save(ctx, []byte(`[]`)))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)
	})

	t.Run("CorruptBlobRoundTrips", func(t *testing.T) {
		s := setup(t)
		defer s.Close()
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, []byte(`{not json`)))
		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{not json`), got)
	})
}

// Memory is an in-memory store. Set LoadErr/SaveErr to inject failures.
type Memory struct {
	mu      sync.Mutex
	blob    []byte
	saved   bool
	saves   int
	LoadErr error
	SaveErr error
}

var _ store.Store = (*Memory)(nil)

// NewMemory returns an empty store, or one preloaded with blob when non-nil.
func NewMemory(blob []byte) *Memory {
	m := &Memory{}
	if blob != nil {
		m.blob = append([]byte(nil), blob...)
		m.saved = true
	}
	return m
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if !m.saved {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), m.blob...), nil
}

func (m *Memory) Save(ctx context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.blob = append([]byte(nil), blob...)
	m.saved = true
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves counts Save calls, failed ones included.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Blob returns the last successfully saved blob.
func (m *Memory) Blob() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.blob...)
}

// SetSaveErr swaps the injected save error under the lock.
func (m *Memory) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

// ErrInjected is a convenience failure for tests.
var ErrInjected = errors.New("injected failure")

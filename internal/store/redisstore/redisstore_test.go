package redisstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tierlist/internal/store"
	"github.com/idilsaglam/tierlist/internal/store/storetest"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		_, client := newClient(t)
		return New(client, "")
	})
}

func TestSaveUsesKey(t *testing.T) {
	mr, client := newClient(t)
	s := New(client, "shelf")
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), []byte(`[]`)))
	got, err := mr.Get("shelf")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestLoadFailsWhenServerDown(t *testing.T) {
	mr, client := newClient(t)
	s := New(client, "")
	defer s.Close()
	mr.Close()

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

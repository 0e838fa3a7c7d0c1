package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/idilsaglam/tierlist/internal/store"
)

// Store keeps the blob as a plain string value in Redis.
type Store struct {
	client *redis.Client
	key    string
}

var _ store.Store = (*Store)(nil)

// New wraps client. The store owns the client and closes it on Close.
func New(client *redis.Client, key string) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	if key == "" {
		key = store.DefaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return b, nil
}

func (s *Store) Save(ctx context.Context, blob []byte) error {
	if err := s.client.Set(ctx, s.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }

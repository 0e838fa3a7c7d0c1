// Package store is the persistence boundary for the catalog. A backend keeps
// the whole collection as a single serialized blob under one key.
package store

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/tierlist/internal/model"
)

// DefaultKey names the stored collection.
const DefaultKey = "anime-tierlist-v1"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved collection")

// Store is a single-key blob store.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Close() error
}

// LoadItems reads the collection. It never fails: a missing key, unreadable
// backend, invalid JSON or non-list document all yield an empty collection.
// Inside a list, fields are coerced and only non-object elements are dropped.
func LoadItems(ctx context.Context, s Store, logger log.FieldLogger) []model.Item {
	blob, err := s.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.WithError(err).Warn("load collection failed, starting empty")
		}
		return []model.Item{}
	}
	items, skipped, err := model.UnmarshalItemsLenient(blob)
	if err != nil {
		logger.WithError(err).Warn("stored collection is corrupt, starting empty")
		return []model.Item{}
	}
	for _, err := range skipped {
		logger.WithError(err).Warn("skipping unreadable stored item")
	}
	return items
}

// SaveItems encodes and saves the collection.
func SaveItems(ctx context.Context, s Store, items []model.Item) error {
	blob, err := model.MarshalItems(items)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, blob); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

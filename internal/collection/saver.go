package collection

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/store"
)

const saveTimeout = 10 * time.Second

// saver persists snapshots on its own goroutine. Only the newest pending
// snapshot is written; older ones queued behind it are skipped.
type saver struct {
	store store.Store
	log   log.FieldLogger

	mu       sync.Mutex
	latest   []model.Item
	queued   uint64
	saved    uint64
	progress chan struct{}
	closed   bool

	wake chan struct{}
	done chan struct{}
}

func newSaver(s store.Store, logger log.FieldLogger) *saver {
	sv := &saver{
		store:    s,
		log:      logger,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go sv.run()
	return sv
}

func (s *saver) enqueue(items []model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Warn("collection changed after close; change not persisted")
		return
	}
	s.latest = items
	s.queued++
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) run() {
	defer close(s.done)
	for range s.wake {
		s.drain()
	}
	s.drain()
}

func (s *saver) drain() {
	for {
		s.mu.Lock()
		if s.saved == s.queued {
			s.mu.Unlock()
			return
		}
		items, version := s.latest, s.queued
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := store.SaveItems(ctx, s.store, items)
		cancel()
		if err != nil {
			s.log.WithError(err).WithField("items", len(items)).Error("persist collection")
		} else {
			s.log.WithField("items", len(items)).Debug("collection persisted")
		}

		s.mu.Lock()
		s.saved = version
		close(s.progress)
		s.progress = make(chan struct{})
		s.mu.Unlock()
	}
}

func (s *saver) flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.queued
	s.mu.Unlock()
	for {
		s.mu.Lock()
		if s.saved >= target {
			s.mu.Unlock()
			return nil
		}
		ch := s.progress
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *saver) close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.wake)
	}
	s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

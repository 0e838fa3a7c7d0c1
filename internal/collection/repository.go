// Package collection owns the canonical, ordered list of catalog items and
// the mutation protocol over it. Every mutation republishes a snapshot to
// subscribers and hands it to a background persistence worker.
package collection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/tierlist/internal/ident"
	"github.com/idilsaglam/tierlist/internal/logging"
	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/store"
)

var (
	// ErrNotFound is returned by Resolve when no item matches.
	ErrNotFound = errors.New("item not found")
	// ErrAmbiguous is returned by Resolve when a prefix matches several items.
	ErrAmbiguous = errors.New("item reference is ambiguous")
)

// Options tune a Repository. Zero values pick sensible defaults.
type Options struct {
	Ranks         model.Ranks
	DefaultStatus model.Status
	NewID         ident.Generator
	Now           func() time.Time
	Logger        log.FieldLogger
}

func (o Options) withDefaults() Options {
	if len(o.Ranks) == 0 {
		o.Ranks = model.DefaultRanks
	}
	if !o.DefaultStatus.Known() {
		o.DefaultStatus = model.DefaultStatus
	}
	if o.NewID == nil {
		o.NewID = ident.New
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

// Repository is the single writer of the collection. Construct one per
// session and pass it to every consumer.
type Repository struct {
	opts  Options
	saver *saver

	mu    sync.Mutex
	items []model.Item

	subMu   sync.Mutex
	subs    map[int]func([]model.Item)
	nextSub int
}

// Open loads the collection from s and starts the persistence worker.
func Open(ctx context.Context, s store.Store, opts Options) *Repository {
	opts = opts.withDefaults()
	return New(store.LoadItems(ctx, s, opts.Logger), s, opts)
}

// New wraps an already loaded collection. items is taken as-is.
func New(items []model.Item, s store.Store, opts Options) *Repository {
	opts = opts.withDefaults()
	if items == nil {
		items = []model.Item{}
	}
	r := &Repository{
		opts:  opts,
		items: items,
		subs:  make(map[int]func([]model.Item)),
	}
	r.saver = newSaver(s, opts.Logger)
	return r
}

// Ranks are the rank labels mutations coerce against.
func (r *Repository) Ranks() model.Ranks { return r.opts.Ranks }

// Snapshot returns a copy of the current ordered collection.
func (r *Repository) Snapshot() []model.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Len is the number of items.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Get looks an item up by exact id.
func (r *Repository) Get(id string) (model.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := indexOf(r.items, id); i >= 0 {
		return r.items[i], true
	}
	return model.Item{}, false
}

// Resolve finds an item by exact id or unique id prefix.
func (r *Repository) Resolve(ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Item{}, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := indexOf(r.items, ref); i >= 0 {
		return r.items[i], nil
	}
	var found []model.Item
	for _, it := range r.items {
		if strings.HasPrefix(it.ID, ref) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return found[0], nil
	}
	return model.Item{}, fmt.Errorf("%w: %s matches %d items", ErrAmbiguous, ref, len(found))
}

// Add prepends a new item built from d. A title that trims to empty makes
// the call a no-op and ok is false.
func (r *Repository) Add(d model.Draft) (model.Item, bool) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return model.Item{}, false
	}
	status, ok := model.ParseStatus(d.Status)
	if !ok {
		status = r.opts.DefaultStatus
	}
	var rating *float64
	if d.Rating != nil {
		rating = model.ClampRating(*d.Rating)
	}

	r.mu.Lock()
	now := r.opts.Now().UTC()
	it := model.Item{
		ID:        r.freshID(r.items),
		Title:     title,
		Status:    status,
		Tier:      model.ParseTier(d.Tier, r.opts.Ranks),
		Rating:    rating,
		CoverURL:  strings.TrimSpace(d.CoverURL),
		AddedAt:   now,
		UpdatedAt: now,
	}
	next := make([]model.Item, 0, len(r.items)+1)
	next = append(next, it)
	next = append(next, r.items...)
	r.commit(next)
	r.mu.Unlock()

	r.notify(next)
	return it, true
}

// Update merges p into the item with id. Unknown ids are a no-op.
func (r *Repository) Update(id string, p model.Patch) bool {
	r.mu.Lock()
	i := indexOf(r.items, id)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	next := slices.Clone(r.items)
	next[i] = r.apply(next[i], p)
	r.commit(next)
	r.mu.Unlock()

	r.notify(next)
	return true
}

// MoveToTier re-tiers one item. Unknown tier labels land in Unrated.
func (r *Repository) MoveToTier(id, tier string) bool {
	return r.Update(id, model.Patch{Tier: &tier})
}

// Delete removes the item with id. Unknown ids are a no-op.
func (r *Repository) Delete(id string) bool {
	r.mu.Lock()
	i := indexOf(r.items, id)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	next := slices.Delete(slices.Clone(r.items), i, i+1)
	r.commit(next)
	r.mu.Unlock()

	r.notify(next)
	return true
}

// Restore puts a previously deleted item back at index at, clamped to the
// current length. It is a no-op when the id is already present. Changes made
// since the delete are kept.
func (r *Repository) Restore(it model.Item, at int) bool {
	if it.ID == "" {
		return false
	}
	r.mu.Lock()
	if indexOf(r.items, it.ID) >= 0 {
		r.mu.Unlock()
		return false
	}
	at = min(max(at, 0), len(r.items))
	next := slices.Insert(slices.Clone(r.items), at, it)
	r.commit(next)
	r.mu.Unlock()

	r.notify(next)
	return true
}

// ReplaceAll swaps the whole collection, as import does. A nil slice is not
// a sequence and is rejected without touching state. Tiers and statuses are
// normalized, and missing or duplicate ids are reissued.
func (r *Repository) ReplaceAll(items []model.Item) error {
	if items == nil {
		return fmt.Errorf("replace collection: %w", model.ErrNotSequence)
	}
	r.mu.Lock()
	next := make([]model.Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		it.Tier = model.ParseTier(string(it.Tier), model.ExtendedRanks)
		if strings.TrimSpace(string(it.Status)) == "" {
			it.Status = r.opts.DefaultStatus
		}
		if it.Rating != nil {
			it.Rating = model.ClampRating(*it.Rating)
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = r.freshID(items)
		}
		seen[it.ID] = true
		next = append(next, it)
	}
	r.commit(next)
	r.mu.Unlock()

	r.notify(next)
	return nil
}

// Subscribe registers fn to receive every new snapshot. Call the returned
// function to stop.
func (r *Repository) Subscribe(fn func([]model.Item)) (cancel func()) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

// Flush blocks until the latest snapshot has been handed to the store.
func (r *Repository) Flush(ctx context.Context) error { return r.saver.flush(ctx) }

// Close flushes pending writes and stops the persistence worker. The store
// itself stays open; its owner closes it.
func (r *Repository) Close(ctx context.Context) error { return r.saver.close(ctx) }

func (r *Repository) apply(it model.Item, p model.Patch) model.Item {
	if p.Title != nil {
		if t := strings.TrimSpace(*p.Title); t != "" {
			it.Title = t
		}
	}
	if p.Status != nil {
		if s, ok := model.ParseStatus(*p.Status); ok {
			it.Status = s
		}
	}
	if p.Tier != nil {
		it.Tier = model.ParseTier(*p.Tier, r.opts.Ranks)
	}
	if p.Rating != nil {
		it.Rating = model.ClampRating(*p.Rating)
	}
	if p.ClearRating {
		it.Rating = nil
	}
	if p.CoverURL != nil {
		it.CoverURL = strings.TrimSpace(*p.CoverURL)
	}
	now := r.opts.Now().UTC()
	if now.Before(it.UpdatedAt) {
		now = it.UpdatedAt
	}
	it.UpdatedAt = now
	return it
}

// freshID draws ids until one is unused in items and the live collection.
func (r *Repository) freshID(items []model.Item) string {
	for {
		id := r.opts.NewID()
		if indexOf(items, id) < 0 && indexOf(r.items, id) < 0 {
			return id
		}
	}
}

// commit installs next and queues it for saving. Callers hold r.mu, so the
// saver sees snapshots in the order they were committed.
func (r *Repository) commit(next []model.Item) {
	r.items = next
	r.saver.enqueue(next)
}

func (r *Repository) notify(snapshot []model.Item) {
	r.subMu.Lock()
	fns := make([]func([]model.Item), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()
	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}

func indexOf(items []model.Item, id string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}

// Package recent keeps the bounded, most-recent-first list of opened sources.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mithrel/mdviewer/internal/kv"
	"github.com/mithrel/mdviewer/pkg/api"
)

const (
	// Key is the single kv entry holding the encoded list.
	Key = "recent_items"
	// MaxItems bounds the list; adds beyond it evict from the tail.
	MaxItems = 10

	emptyList = "[]"
)

// Store is a read-modify-write view over one kv key. It takes no locks:
// callers that share a backing key across goroutines or processes must
// serialize mutations themselves, otherwise the last writer wins.
type Store struct {
	kv  kv.Store
	key string
	now func() time.Time
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used by Touch.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{kv: backend, key: Key, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns the stored items, most recently opened first. Stored data that
// cannot be decoded yields an empty list.
func (s *Store) List(ctx context.Context) []api.RecentItem {
	raw := s.kv.Get(ctx, s.key, emptyList)
	var items []api.RecentItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []api.RecentItem{}
	}
	if items == nil {
		items = []api.RecentItem{}
	}
	// Equal timestamps keep their stored order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastOpened > items[j].LastOpened
	})
	return items
}

// Add upserts item by path and moves it to the front, then trims the list to
// MaxItems. Front position follows call order, not the item's timestamp.
func (s *Store) Add(ctx context.Context, item api.RecentItem) error {
	current := s.List(ctx)
	out := make([]api.RecentItem, 0, len(current)+1)
	out = append(out, item)
	for _, it := range current {
		if it.Path != item.Path {
			out = append(out, it)
		}
	}
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	return s.save(ctx, out)
}

// ErrNoSource is returned by Touch for the empty source.
var ErrNoSource = errors.New("no content source")

// Touch records src as opened now.
func (s *Store) Touch(ctx context.Context, src api.ContentSource) error {
	if src.Kind == api.SourceNone {
		return ErrNoSource
	}
	return s.Add(ctx, api.RecentItemFromSource(src, s.now()))
}

// Remove drops the item with path. Removing an unknown path is a no-op.
func (s *Store) Remove(ctx context.Context, path string) error {
	current := s.List(ctx)
	out := current[:0]
	for _, it := range current {
		if it.Path != path {
			out = append(out, it)
		}
	}
	return s.save(ctx, out)
}

// Clear overwrites the stored list with an empty one.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Put(ctx, s.key, emptyList); err != nil {
		return fmt.Errorf("clear recent items: %w", err)
	}
	return nil
}

// Get returns the item stored under path.
func (s *Store) Get(ctx context.Context, path string) (api.RecentItem, bool) {
	for _, it := range s.List(ctx) {
		if it.Path == path {
			return it, true
		}
	}
	return api.RecentItem{}, false
}

func (s *Store) save(ctx context.Context, items []api.RecentItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode recent items: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("save recent items: %w", err)
	}
	return nil
}

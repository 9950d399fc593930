package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/platform/resilience"
)

var ErrLoaderRequired = errors.New("loader is required")

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Options tunes a Store. A zero TTL keeps entries until deleted.
type Options struct {
	TTL time.Duration
	// Sliding pushes an entry's expiry forward on every successful Get.
	Sliding bool
}

// Store is an in-process TTL map keyed by string.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	opts    Options
	flight  resilience.SingleFlight[V]
	now     func() time.Time
}

func NewStore[V any](opts Options) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		opts:    opts,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e, now) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && s.expired(current, now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	if s.opts.Sliding && s.opts.TTL > 0 {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok {
			current.expiresAt = now.Add(s.opts.TTL)
			s.entries[key] = current
		}
		s.mu.Unlock()
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.opts.TTL > 0 {
		expiresAt = s.now().Add(s.opts.TTL)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

// Delete removes key and reports whether a live entry was present.
func (s *Store[V]) Delete(_ context.Context, key string) bool {
	if key == "" {
		return false
	}

	now := s.now()
	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	return ok && !s.expired(e, now)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[V]) Sweep() int {
	now := s.now()
	removed := 0

	s.mu.Lock()
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, ErrLoaderRequired
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.opts.TTL > 0 && !e.expiresAt.After(now)
}

package journal

import (
	"context"
	"sync"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// MemoryStore keeps raw events in memory.
// It is intended for tests and examples; nothing survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]event.Raw
	closed  bool
}

// NewMemoryStore creates an empty in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[string][]event.Raw),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, streamID string, raws ...event.Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.streams[streamID] = append(s.streams[streamID], raws...)
	return nil
}

// Events implements Store.
func (s *MemoryStore) Events(_ context.Context, streamID string) stream.Stream[event.Raw] {
	return func(yield func(event.Raw, error) bool) {
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			yield(event.Raw{}, ErrStoreClosed)
			return
		}
		// Snapshot so appends during iteration don't race.
		raws := make([]event.Raw, len(s.streams[streamID]))
		copy(raws, s.streams[streamID])
		s.mu.RUnlock()

		for _, raw := range raws {
			if !yield(raw, nil) {
				return
			}
		}
	}
}

// Len implements Store.
func (s *MemoryStore) Len(_ context.Context, streamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.streams[streamID]), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

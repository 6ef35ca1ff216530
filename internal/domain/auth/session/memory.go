package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value string
	// gen guards against a stale expiry timer deleting a re-set key.
	gen uint64
}

// memoryStore is the process-local fallback backend. Entries live in a map;
// a TTL schedules a deferred deletion. Nothing survives a restart.
type memoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	gen   uint64
}

// NewMemory builds the in-process fallback store.
func NewMemory() Store {
	return &memoryStore{items: make(map[string]memoryEntry)}
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.items[key] = memoryEntry{value: value, gen: gen}
	s.mu.Unlock()

	if ttl > 0 {
		time.AfterFunc(ttl, func() {
			s.mu.Lock()
			if entry, ok := s.items[key]; ok && entry.gen == gen {
				delete(s.items, key)
			}
			s.mu.Unlock()
		})
	}
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.items[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *memoryStore) Close() error {
	return nil
}

// Package memory implements an in-process slot store for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sort"
	"sync"

	"lifetrack/pkg/domain"
)

var _ domain.SlotStore = (*Store)(nil)

// Store keeps slot payloads in process memory.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{slots: make(map[string][]byte)} }

// Load returns a copy of the payload under key.
func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, domain.ErrEmptySlotKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save stores a copy of payload under key.
func (s *Store) Save(_ context.Context, key string, payload []byte) error {
	if key == "" {
		return domain.ErrEmptySlotKey
	}
	s.mu.Lock()
	s.slots[key] = append([]byte(nil), payload...)
	s.mu.Unlock()
	return nil
}

// Remove drops key.
func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return domain.ErrEmptySlotKey
	}
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

// Keys lists the occupied slots in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

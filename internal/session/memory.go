package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"spice-storefront/internal/resolver"
)

// memoryStore keeps slots in process memory.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]resolver.Slot
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]map[string]resolver.Slot)}
}

func (s *memoryStore) Load(ctx context.Context, sessionID string) (map[string]resolver.Slot, error) {
	if err := validate(sessionID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := maps.Clone(s.sessions[sessionID])
	if slots == nil {
		slots = map[string]resolver.Slot{}
	}
	return slots, nil
}

func (s *memoryStore) Save(ctx context.Context, sessionID, selector string, slot resolver.Slot) (bool, error) {
	if err := validate(sessionID); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tabs, ok := s.sessions[sessionID]
	if !ok {
		tabs = make(map[string]resolver.Slot)
		s.sessions[sessionID] = tabs
	}
	current, exists := tabs[selector]
	if exists && current.Seq >= slot.Seq {
		return false, nil
	}
	if !exists && len(tabs) >= MaxSlotsPerSession {
		evictOldest(tabs)
	}
	tabs[selector] = slot
	return true, nil
}

func evictOldest(tabs map[string]resolver.Slot) {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for selector, slot := range tabs {
		if !found || slot.FetchedAt.Before(at) {
			oldest, at, found = selector, slot.FetchedAt, true
		}
	}
	if found {
		delete(tabs, oldest)
	}
}

func (s *memoryStore) Prune(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, tabs := range s.sessions {
		for selector, slot := range tabs {
			if slot.FetchedAt.Before(before) {
				delete(tabs, selector)
				removed++
			}
		}
		if len(tabs) == 0 {
			delete(s.sessions, id)
		}
	}
	return removed, nil
}

func (s *memoryStore) Close() error {
	return nil
}

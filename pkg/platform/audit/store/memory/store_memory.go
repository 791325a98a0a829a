package memory

import (
	"context"
	"sync"

	id "orion/pkg/domain"
	audit "orion/pkg/platform/audit"
)

// InMemoryStore keeps audit events indexed by entity and in append order.
type InMemoryStore struct {
	mu       sync.RWMutex
	byEntity map[id.EntityID][]audit.Event
	log      []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byEntity: make(map[id.EntityID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEntity[event.EntityID] = append(s.byEntity[event.EntityID], event)
	s.log = append(s.log, event)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.byEntity[entityID]...), nil
}

// ListRecent returns the last limit events in append order. A limit <= 0
// returns every event.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && limit < len(s.log) {
		start = len(s.log) - limit
	}
	return append([]audit.Event{}, s.log[start:]...), nil
}

package store

import (
	"context"
	"fmt"
	"sync"

	"orion/internal/registry/models"
	id "orion/pkg/domain"
	"orion/pkg/platform/sentinel"
)

// InMemory is the registry store. Records are cloned on the way in and out
// so callers never share state with the store.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.EntityID]*models.Registration
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.EntityID]*models.Registration)}
}

// CreateIfAbsent stores a new record. Returns sentinel.ErrConflict when the
// entity id is already registered.
func (s *InMemory) CreateIfAbsent(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[reg.EntityID()]; ok {
		return fmt.Errorf("entity %s: %w", reg.EntityID(), sentinel.ErrConflict)
	}
	s.records[reg.EntityID()] = reg.Clone()
	return nil
}

// Overwrite replaces or creates the record for reg's entity. Relationship
// ids of a replaced record are carried over. Reports whether a record existed.
// Returns sentinel.ErrConflict when the stored record has a different entity
// type, since existing relationships keep the type they were established with.
func (s *InMemory) Overwrite(_ context.Context, reg *models.Registration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := reg.Clone()
	prev, existed := s.records[reg.EntityID()]
	if existed {
		if prev.Type() != next.Type() {
			return true, fmt.Errorf("entity %s is registered as %s: %w", reg.EntityID(), prev.Type(), sentinel.ErrConflict)
		}
		next.RelationshipIDs = append(append([]id.RelationshipID{}, prev.RelationshipIDs...), next.RelationshipIDs...)
	}
	s.records[reg.EntityID()] = next
	return existed, nil
}

// FindByID returns a copy of the record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, entityID id.EntityID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.records[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return reg.Clone(), nil
}

// AppendRelationship adds a relationship id to the entity's record.
func (s *InMemory) AppendRelationship(_ context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.records[entityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	reg.RelationshipIDs = append(reg.RelationshipIDs, relationshipID)
	return nil
}

// RemoveRelationship drops relationshipID from the entity's record. Removing
// an id that is not recorded is a no-op.
func (s *InMemory) RemoveRelationship(_ context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.records[entityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	kept := reg.RelationshipIDs[:0]
	for _, relID := range reg.RelationshipIDs {
		if relID != relationshipID {
			kept = append(kept, relID)
		}
	}
	reg.RelationshipIDs = kept
	return nil
}

// Count returns the number of registered entities.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

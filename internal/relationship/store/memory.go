package store

import (
	"context"
	"fmt"
	"sync"

	"orion/internal/relationship/models"
	id "orion/pkg/domain"
	"orion/pkg/platform/sentinel"
)

// InMemory holds relationships behind a single RWMutex. Execute runs the
// validate/mutate pair under the write lock so a check and its transition
// can never interleave with another writer.
type InMemory struct {
	mu            sync.RWMutex
	relationships map[id.RelationshipID]*models.Relationship
}

func NewInMemory() *InMemory {
	return &InMemory{relationships: make(map[id.RelationshipID]*models.Relationship)}
}

// CreateIfAbsent stores rel. Returns sentinel.ErrConflict when the id is taken.
func (s *InMemory) CreateIfAbsent(_ context.Context, rel *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relationships[rel.ID]; ok {
		return fmt.Errorf("relationship %s: %w", rel.ID, sentinel.ErrConflict)
	}
	s.relationships[rel.ID] = rel.Clone()
	return nil
}

// FindByID returns a copy of the relationship or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, relationshipID id.RelationshipID) (*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.relationships[relationshipID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rel.Clone(), nil
}

// Execute validates and mutates the stored relationship atomically.
// validate errors are returned unchanged and leave the record untouched.
// Returns a copy of the relationship after mutate.
func (s *InMemory) Execute(
	_ context.Context,
	relationshipID id.RelationshipID,
	validate func(*models.Relationship) error,
	mutate func(*models.Relationship),
) (*models.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.relationships[relationshipID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(rel); err != nil {
		return nil, err
	}
	mutate(rel)
	return rel.Clone(), nil
}

// Delete removes the relationship. Deleting an unknown id is a no-op.
func (s *InMemory) Delete(_ context.Context, relationshipID id.RelationshipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.relationships, relationshipID)
	return nil
}

// ListByIDs returns copies of the relationships in ids order, skipping
// unknown ids.
func (s *InMemory) ListByIDs(_ context.Context, ids []id.RelationshipID) ([]*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Relationship, 0, len(ids))
	for _, relID := range ids {
		if rel, ok := s.relationships[relID]; ok {
			out = append(out, rel.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relationships), nil
}

package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"orion/internal/identity"
	"orion/internal/relationship/models"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
	"orion/pkg/platform/sentinel"
)

type RelationshipStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestRelationshipStoreSuite(t *testing.T) {
	suite.Run(t, new(RelationshipStoreSuite))
}

func (s *RelationshipStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func (s *RelationshipStoreSuite) newRelationship(relID string) *models.Relationship {
	rel, err := models.NewRelationship(id.RelationshipID(relID),
		identity.Public{ID: "Orion", Type: id.EntityTypeAgent},
		identity.Public{ID: "Host", Type: id.EntityTypeSystem},
		models.Parameters{}, nil, id.DefaultProtocolVersion(), s.now)
	s.Require().NoError(err)
	return rel
}

func (s *RelationshipStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds by id", func() {
		s.Require().NoError(s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-1")))

		found, err := s.store.FindByID(s.ctx, "REL-1")
		s.Require().NoError(err)
		s.Equal(models.StatusActive, found.Status)
	})

	s.Run("duplicate id conflicts", func() {
		err := s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-1"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, "REL-missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("list skips unknown ids and keeps order", func() {
		s.Require().NoError(s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-2")))
		rels, err := s.store.ListByIDs(s.ctx, []id.RelationshipID{"REL-2", "REL-missing", "REL-1"})
		s.Require().NoError(err)
		s.Require().Len(rels, 2)
		s.Equal(id.RelationshipID("REL-2"), rels[0].ID)
		s.Equal(id.RelationshipID("REL-1"), rels[1].ID)

		count, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, count)
	})
}

func (s *RelationshipStoreSuite) TestExecute() {
	s.Require().NoError(s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-1")))

	s.Run("validation error leaves record untouched", func() {
		_, err := s.store.Execute(s.ctx, "REL-1",
			func(r *models.Relationship) error { return r.CanTerminate("Host") },
			func(r *models.Relationship) { r.ApplyTermination("Host", s.now) },
		)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		found, err := s.store.FindByID(s.ctx, "REL-1")
		s.Require().NoError(err)
		s.Equal(models.StatusActive, found.Status)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.Execute(s.ctx, "REL-missing",
			func(*models.Relationship) error { return nil },
			func(*models.Relationship) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("mutation is persisted and returned as a copy", func() {
		updated, err := s.store.Execute(s.ctx, "REL-1",
			func(r *models.Relationship) error { return r.CanExchange("Host", "Orion") },
			func(r *models.Relationship) {
				r.ApplyInteraction(models.InteractionEntry{SenderID: "Host", ReceiverID: "Orion", Result: models.ResultPassed})
			},
		)
		s.Require().NoError(err)
		s.Len(updated.InteractionLog, 1)
		updated.InteractionLog = nil

		found, err := s.store.FindByID(s.ctx, "REL-1")
		s.Require().NoError(err)
		s.Len(found.InteractionLog, 1)
	})
}

// TestConcurrentTermination verifies exactly one of many racing
// terminations wins and the rest observe already_terminated.
func (s *RelationshipStoreSuite) TestConcurrentTermination() {
	s.Require().NoError(s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-race")))

	var wins, already atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, "REL-race",
				func(r *models.Relationship) error { return r.CanTerminate("Orion") },
				func(r *models.Relationship) { r.ApplyTermination("Orion", s.now) },
			)
			switch {
			case err == nil:
				wins.Add(1)
			case dErrors.HasCode(err, dErrors.CodeAlreadyTerminated):
				already.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(31), already.Load())
}

// TestSendTerminateRace verifies no interaction is appended after the
// relationship is terminated.
func (s *RelationshipStoreSuite) TestSendTerminateRace() {
	s.Require().NoError(s.store.CreateIfAbsent(s.ctx, s.newRelationship("REL-race")))

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, "REL-race",
				func(r *models.Relationship) error { return r.CanExchange("Host", "Orion") },
				func(r *models.Relationship) {
					r.ApplyInteraction(models.InteractionEntry{SenderID: "Host", ReceiverID: "Orion", Result: models.ResultPassed})
				},
			)
			if err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.store.Execute(s.ctx, "REL-race",
			func(r *models.Relationship) error { return r.CanTerminate("Orion") },
			func(r *models.Relationship) { r.ApplyTermination("Orion", s.now) },
		)
	}()
	wg.Wait()

	found, err := s.store.FindByID(s.ctx, "REL-race")
	s.Require().NoError(err)
	s.Equal(models.StatusTerminated, found.Status)
	s.Len(found.InteractionLog, int(accepted.Load()))
}

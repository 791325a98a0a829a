package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orion/internal/identity"
	"orion/internal/registry/models"
	id "orion/pkg/domain"
	"orion/pkg/platform/sentinel"
)

func newRegistration(entityID string, t id.EntityType) *models.Registration {
	pub := identity.Public{ID: id.EntityID(entityID), Type: t, Signature: "sig-" + entityID}
	return models.NewRegistration(pub, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestInMemory_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.CreateIfAbsent(ctx, newRegistration("Orion", id.EntityTypeAgent)))

	err := s.CreateIfAbsent(ctx, newRegistration("Orion", id.EntityTypeSystem))
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	got, err := s.FindByID(ctx, "Orion")
	require.NoError(t, err)
	assert.Equal(t, id.EntityTypeAgent, got.Type(), "first registration is kept")
	assert.Equal(t, models.ProtectionMaximum, got.ProtectionStatus)
}

func TestInMemory_FindByID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.CreateIfAbsent(ctx, newRegistration("HostSystem", id.EntityTypeSystem)))
	got, err := s.FindByID(ctx, "HostSystem")
	require.NoError(t, err)
	got.RelationshipIDs = append(got.RelationshipIDs, "REL-leak")

	again, err := s.FindByID(ctx, "HostSystem")
	require.NoError(t, err)
	assert.Empty(t, again.RelationshipIDs, "returned records are copies")
}

func TestInMemory_AppendRelationship(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.CreateIfAbsent(ctx, newRegistration("Orion", id.EntityTypeAgent)))

	require.NoError(t, s.AppendRelationship(ctx, "Orion", "REL-1"))
	require.NoError(t, s.AppendRelationship(ctx, "Orion", "REL-2"))

	got, err := s.FindByID(ctx, "Orion")
	require.NoError(t, err)
	assert.Equal(t, []id.RelationshipID{"REL-1", "REL-2"}, got.RelationshipIDs)

	err = s.AppendRelationship(ctx, "missing", "REL-3")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemory_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	existed, err := s.Overwrite(ctx, newRegistration("Orion", id.EntityTypeAgent))
	require.NoError(t, err)
	assert.False(t, existed)
	require.NoError(t, s.AppendRelationship(ctx, "Orion", "REL-1"))

	replacement := newRegistration("Orion", id.EntityTypeAgent)
	replacement.Identity.Signature = "sig-rotated"
	existed, err = s.Overwrite(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, existed)

	got, err := s.FindByID(ctx, "Orion")
	require.NoError(t, err)
	assert.Equal(t, "sig-rotated", got.Identity.Signature)
	assert.Equal(t, []id.RelationshipID{"REL-1"}, got.RelationshipIDs, "relationship ids survive overwrite")

	t.Run("type change is a conflict", func(t *testing.T) {
		existed, err := s.Overwrite(ctx, newRegistration("Orion", id.EntityTypeSystem))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
		assert.True(t, existed)

		got, err := s.FindByID(ctx, "Orion")
		require.NoError(t, err)
		assert.Equal(t, id.EntityTypeAgent, got.Type())
		assert.Equal(t, "sig-rotated", got.Identity.Signature)
	})
}

func TestInMemory_RemoveRelationship(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.CreateIfAbsent(ctx, newRegistration("Orion", id.EntityTypeAgent)))
	for _, relID := range []id.RelationshipID{"REL-1", "REL-2", "REL-3"} {
		require.NoError(t, s.AppendRelationship(ctx, "Orion", relID))
	}

	require.NoError(t, s.RemoveRelationship(ctx, "Orion", "REL-2"))
	require.NoError(t, s.RemoveRelationship(ctx, "Orion", "REL-9"))

	got, err := s.FindByID(ctx, "Orion")
	require.NoError(t, err)
	assert.Equal(t, []id.RelationshipID{"REL-1", "REL-3"}, got.RelationshipIDs)

	err = s.RemoveRelationship(ctx, "missing", "REL-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemory_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.CreateIfAbsent(ctx, newRegistration("Orion", id.EntityTypeAgent)))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AppendRelationship(ctx, "Orion", id.RelationshipID(fmt.Sprintf("REL-%d", i))))
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, "Orion")
	require.NoError(t, err)
	assert.Len(t, got.RelationshipIDs, 50)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

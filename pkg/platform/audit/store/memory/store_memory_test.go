package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "orion/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Append(ctx, audit.NewEvent(audit.EventEntityRegistered, "Orion")))
	require.NoError(t, store.Append(ctx, audit.NewEvent(audit.EventEntityRegistered, "HostSystem")))
	require.NoError(t, store.Append(ctx, audit.NewEvent(audit.EventRelationshipEstablished, "Orion")))

	t.Run("lists by entity", func(t *testing.T) {
		events, err := store.ListByEntity(ctx, "Orion")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, string(audit.EventRelationshipEstablished), events[1].Action)

		events, err = store.ListByEntity(ctx, "Unknown")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("lists recent in append order", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "HostSystem", events[0].EntityID.String())
		assert.Equal(t, "Orion", events[1].EntityID.String())
	})

	t.Run("non-positive limit returns everything", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 3)

		events, err = store.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		events, err := store.ListByEntity(ctx, "Orion")
		require.NoError(t, err)
		events[0].Action = "tampered"

		again, err := store.ListByEntity(ctx, "Orion")
		require.NoError(t, err)
		assert.Equal(t, string(audit.EventEntityRegistered), again[0].Action)
	})
}

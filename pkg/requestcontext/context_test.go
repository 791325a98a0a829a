package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "orion/pkg/domain"
)

func TestAccessors(t *testing.T) {
	t.Run("zero values when unset", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, RequestID(ctx))
		assert.True(t, ActorID(ctx).IsNil())
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("returns injected values", func(t *testing.T) {
		fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
		ctx := WithTime(context.Background(), fixed)
		ctx = WithRequestID(ctx, "req-1")
		ctx = WithActorID(ctx, id.EntityID("Orion"))

		assert.Equal(t, fixed, Now(ctx))
		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, id.EntityID("Orion"), ActorID(ctx))
	})
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecircle/internal/domain"
)

func TestStatsSummary_WeightSum(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	weights := []string{"4.5 kg", "2kg", "heavy", ""}
	for i, w := range weights {
		require.NoError(t, store.Items().Create(ctx, &domain.Item{
			ID:     "item-" + string(rune('a'+i)),
			Weight: w,
			Status: domain.ItemStatusAvailable,
		}))
	}

	stats, err := store.Stats().Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.ItemsShared)
	assert.InDelta(t, 6.5, stats.WasteDivertedKg, 0.001, "only the numeric part of a weight counts")
}

func TestLogisticsUpdate_StaleStatusConflicts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	now := time.Now().UTC()
	logistics := &domain.Logistics{
		ID:        "log-1",
		RequestID: "req-1",
		Type:      domain.LogisticsTypePickup,
		Status:    domain.LogisticsStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Logistics().Create(ctx, logistics, "item-1"))

	// First writer completes the arrangement from the pending state it read.
	completed := *logistics
	completed.Status = domain.LogisticsStatusCompleted
	require.NoError(t, store.Logistics().Update(ctx, &completed, "item-1", domain.LogisticsStatusPending, true))

	// Second writer also read pending; its write must lose, not resurrect
	// the record.
	stale := *logistics
	stale.Status = domain.LogisticsStatusScheduled
	err := store.Logistics().Update(ctx, &stale, "item-1", domain.LogisticsStatusPending, false)
	require.ErrorIs(t, err, domain.ErrConflict)

	current, err := store.Logistics().GetByID(ctx, "log-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LogisticsStatusCompleted, current.Status)
}

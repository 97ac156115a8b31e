package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_ApplyDelta_CreatesWithDeltaAsInitialValue(t *testing.T) {
	store := New()
	key := domain.MetricKey{TenantID: "T1", Date: day(1), ActorID: "A"}

	err := store.ApplyDelta(context.Background(), key, domain.Counters{Dials: 3, RevenueGenerated: decimal.NewFromInt(10)}, "")
	require.NoError(t, err)

	records, err := store.ListByDateRange(context.Background(), "T1", day(1), day(1))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(1), records[0].Version)
	assert.Equal(t, int64(3), records[0].Dials)
	assert.True(t, decimal.NewFromInt(10).Equal(records[0].RevenueGenerated))
}

func TestStore_ApplyDelta_ConcurrentAdditivity(t *testing.T) {
	store := New()
	key := domain.MetricKey{TenantID: "T1", Date: day(2), ActorID: "A"}

	const writers = 64

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// Campos diferentes em escritores diferentes não podem se sobrescrever
			delta := domain.Counters{Dials: 1}
			if i%2 == 1 {
				delta = domain.Counters{LeadsCreated: 1, RevenueGenerated: decimal.NewFromInt(5)}
			}
			assert.NoError(t, store.ApplyDelta(context.Background(), key, delta, ""))
		}(i)
	}
	wg.Wait()

	records, err := store.ListByDateRange(context.Background(), "T1", day(2), day(2))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int64(writers/2), records[0].Dials)
	assert.Equal(t, int64(writers/2), records[0].LeadsCreated)
	assert.True(t, decimal.NewFromInt(writers/2*5).Equal(records[0].RevenueGenerated))
	assert.Equal(t, int64(writers), records[0].Version)
}

func TestStore_ApplyDelta_DuplicateEvent(t *testing.T) {
	store := New()
	key := domain.MetricKey{TenantID: "T1", Date: day(3), ActorID: "A"}

	require.NoError(t, store.ApplyDelta(context.Background(), key, domain.Counters{Dials: 1}, "evt-1"))

	err := store.ApplyDelta(context.Background(), key, domain.Counters{Dials: 1}, "evt-1")
	assert.True(t, errors.Is(err, domain.ErrDuplicateEvent))

	// O mesmo id em outra chave é um evento diferente
	otherKey := domain.MetricKey{TenantID: "T1", Date: day(3), ActorID: "B"}
	assert.NoError(t, store.ApplyDelta(context.Background(), otherKey, domain.Counters{Dials: 1}, "evt-1"))

	records, err := store.ListByDateRange(context.Background(), "T1", day(3), day(3))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].Dials)
	assert.Equal(t, int64(1), records[1].Dials)
}

func TestStore_ApplyDelta_CanceledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.ApplyDelta(ctx, domain.MetricKey{TenantID: "T1", Date: day(1), ActorID: "A"}, domain.Counters{Dials: 1}, "")

	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestStore_ListByDateRange(t *testing.T) {
	store := New()
	ctx := context.Background()

	writes := []domain.MetricKey{
		{TenantID: "T1", Date: day(5), ActorID: "B"},
		{TenantID: "T1", Date: day(4), ActorID: "C"},
		{TenantID: "T1", Date: day(5), ActorID: "A"},
		{TenantID: "T1", Date: day(9), ActorID: "A"},
		{TenantID: "T2", Date: day(5), ActorID: "A"},
	}
	for _, key := range writes {
		require.NoError(t, store.ApplyDelta(ctx, key, domain.Counters{Dials: 1}, ""))
	}

	records, err := store.ListByDateRange(ctx, "T1", day(4), day(8))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "C", records[0].ActorID)
	assert.Equal(t, "A", records[1].ActorID)
	assert.Equal(t, "B", records[2].ActorID)
	for _, record := range records {
		assert.Equal(t, "T1", record.TenantID)
	}

	// Os registros retornados são cópias
	records[0].Dials = 99
	again, err := store.ListByDateRange(ctx, "T1", day(4), day(4))
	require.NoError(t, err)
	assert.Equal(t, int64(1), again[0].Dials)
}

func TestStore_DeleteAppliedEventsOlderThan(t *testing.T) {
	store := New()
	ctx := context.Background()

	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	key := domain.MetricKey{TenantID: "T1", Date: day(1), ActorID: "A"}
	require.NoError(t, store.ApplyDelta(ctx, key, domain.Counters{Dials: 1}, "old"))

	current = current.Add(48 * time.Hour)
	require.NoError(t, store.ApplyDelta(ctx, key, domain.Counters{Dials: 1}, "recent"))

	removed, err := store.DeleteAppliedEventsOlderThan(ctx, current.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Após a limpeza o id antigo volta a ser aceito; o recente continua bloqueado
	assert.NoError(t, store.ApplyDelta(ctx, key, domain.Counters{Dials: 1}, "old"))
	assert.True(t, errors.Is(store.ApplyDelta(ctx, key, domain.Counters{Dials: 1}, "recent"), domain.ErrDuplicateEvent))
}

func TestStore_ClosedDealsAndActors(t *testing.T) {
	store := New()
	ctx := context.Background()

	store.AddClosedDeal("T1", "A", decimal.NewFromInt(1000), day(2))
	store.AddClosedDeal("T1", "B", decimal.NewFromInt(500), day(20))
	store.AddClosedDeal("T2", "A", decimal.NewFromInt(700), day(2))

	deals, err := store.ListClosedWon(ctx, "T1", day(1), day(10))
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "A", deals[0].ActorID)
	assert.True(t, decimal.NewFromInt(1000).Equal(deals[0].DealValue))

	store.PutActor("T1", domain.Actor{ID: "A", DisplayName: "Ana Souza"})
	store.PutActor("T2", domain.Actor{ID: "B", DisplayName: "Bruno Lima"})

	actors, err := store.ListActors(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, "Ana Souza", actors["A"].DisplayName)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/memory"
)

func TestStatusEventPruner_DisabledWhenRetentionZero(t *testing.T) {
	pruner := service.NewStatusEventPruner(memory.New(), service.PrunerConfig{
		RetentionDays: 0,
		IntervalHours: 1,
	}, zap.NewNop(), nil)

	pruner.Start(context.Background())
	pruner.Stop()

	select {
	case <-pruner.Done():
	default:
		t.Fatal("disabled pruner should be done immediately")
	}
}

func TestStatusEventPruner_PrunesOnStart(t *testing.T) {
	ctx := context.Background()
	ms := memory.New()
	now := time.Now().UTC()

	require.NoError(t, ms.CreateBuilding(ctx, store.BuildingRecord{ID: bldg, Status: service.StatusActive}))
	for id, at := range map[string]time.Time{
		"old":    now.AddDate(0, 0, -40),
		"recent": now.AddDate(0, 0, -1),
	} {
		require.NoError(t, ms.RecordStatusEvent(ctx, store.StatusEventRecord{
			EventID: id, BuildingID: bldg, Status: "closed", ChangedAt: at,
		}))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pruner := service.NewStatusEventPruner(ms, service.PrunerConfig{
		RetentionDays: 30,
		IntervalHours: 1,
	}, zap.NewNop(), m)

	pruner.Start(ctx)
	require.Eventually(t, func() bool {
		return len(ms.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	pruner.Stop()

	events := ms.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "recent", events[0].EventID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusEventsPruned))

	got, err := ms.GetBuilding(ctx, bldg)
	require.NoError(t, err)
	assert.NotNil(t, got, "pruning never removes buildings")
}

func TestStatusEventPruner_StopIsIdempotent(t *testing.T) {
	pruner := service.NewStatusEventPruner(memory.New(), service.PrunerConfig{
		RetentionDays: 30,
		IntervalHours: 1,
	}, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	pruner.Start(ctx)

	cancel()
	pruner.Stop()
	pruner.Stop()
}

func TestStatusEventPruner_StopWithoutStart(t *testing.T) {
	pruner := service.NewStatusEventPruner(memory.New(), service.PrunerConfig{RetentionDays: 30}, zap.NewNop(), nil)
	pruner.Stop()
}

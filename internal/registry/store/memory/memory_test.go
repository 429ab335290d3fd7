package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/memory"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store/storetest"
)

func TestMemoryBackend(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Backend { return memory.New() })
}

func TestAppendModification_ConcurrentIDsAreDense(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.CreateBuilding(ctx, store.BuildingRecord{ID: "b-1", Status: "active"}))

	const n = 50
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := st.AppendModification(ctx, store.ModificationRecord{BuildingID: "b-1", RecordedAt: time.Now()})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for want := uint64(1); want <= n; want++ {
		assert.True(t, seen[want], "missing id %d", want)
	}
}

func TestGetOwnership_ReturnsCopy(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.CreateBuilding(ctx, store.BuildingRecord{ID: "b-1", Status: "active"}))
	require.NoError(t, st.PutOwnership(ctx, store.OwnershipRecord{BuildingID: "b-1", OwnerName: "A"}))
	require.NoError(t, st.VerifyOwnership(ctx, "b-1", store.Verification{
		VerifiedBy:        "r-1",
		VerifiedAt:        time.Now(),
		DocumentationHash: make([]byte, 32),
	}))

	got, err := st.GetOwnership(ctx, "b-1")
	require.NoError(t, err)
	*got.VerifiedBy = "tampered"
	got.VerificationHash[0] = 0xff

	again, err := st.GetOwnership(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", *again.VerifiedBy)
	assert.Equal(t, byte(0), again.VerificationHash[0])
}

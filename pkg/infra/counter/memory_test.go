package counter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/infra/counter"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := counter.NewMemoryStore(func() time.Time { return now })

	for i := int64(1); i <= 5; i++ {
		w, err := store.Incr(context.Background(), "ratelimit:auth:1.2.3.4", time.Minute, 6)
		require.NoError(t, err)
		assert.Equal(t, i, w.Count)
		assert.Equal(t, now, w.Start)
	}
}

func TestMemoryStore_CountCappedAtLimit(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := counter.NewMemoryStore(func() time.Time { return now })

	// Cap is limit+1; many more increments never push the count past it.
	for i := 0; i < 20; i++ {
		w, err := store.Incr(context.Background(), "k", time.Minute, 6)
		require.NoError(t, err)
		assert.LessOrEqual(t, w.Count, int64(6))
	}
}

func TestMemoryStore_WindowResetsAfterExpiry(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := counter.NewMemoryStore(func() time.Time { return now })

	for i := 0; i < 6; i++ {
		_, err := store.Incr(context.Background(), "k", time.Minute, 6)
		require.NoError(t, err)
	}

	// Advance past the window: the next increment starts a fresh count.
	now = now.Add(time.Minute)
	w, err := store.Incr(context.Background(), "k", time.Minute, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.Count)
	assert.Equal(t, now, w.Start)
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := counter.NewMemoryStore(nil)

	wa, err := store.Incr(context.Background(), "a", time.Minute, 6)
	require.NoError(t, err)
	wb, err := store.Incr(context.Background(), "b", time.Minute, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(1), wa.Count)
	assert.Equal(t, int64(1), wb.Count)
}

func TestMemoryStore_SweepDropsIdleWindows(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := counter.NewMemoryStore(func() time.Time { return now })

	_, err := store.Incr(context.Background(), "idle", time.Minute, 6)
	require.NoError(t, err)
	_, err = store.Incr(context.Background(), "fresh", time.Minute, 6)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = store.Incr(context.Background(), "fresh", time.Minute, 6)
	require.NoError(t, err)

	removed := store.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)
}

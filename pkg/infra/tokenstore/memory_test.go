package tokenstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/infra/tokenstore"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	require.NoError(t, store.Set(context.Background(), "s1", "tok1", time.Hour))
	token, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	_, err := store.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestMemoryStore_SetReplacesBinding(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	require.NoError(t, store.Set(context.Background(), "s1", "old", time.Hour))
	require.NoError(t, store.Set(context.Background(), "s1", "new", time.Hour))

	token, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "new", token)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	require.NoError(t, store.Set(context.Background(), "s1", "tok", time.Hour))
	require.NoError(t, store.Delete(context.Background(), "s1"))

	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestMemoryStore_SetIfAbsentClaimsFreeSession(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	won, err := store.SetIfAbsent(context.Background(), "s1", "tok1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "tok1", won)
}

func TestMemoryStore_SetIfAbsentKeepsExistingBinding(t *testing.T) {
	store := tokenstore.NewMemoryStore(nil)

	require.NoError(t, store.Set(context.Background(), "s1", "first", time.Hour))

	won, err := store.SetIfAbsent(context.Background(), "s1", "second", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "first", won)

	token, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "first", token)
}

func TestMemoryStore_SetIfAbsentReclaimsExpiredBinding(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := tokenstore.NewMemoryStore(func() time.Time { return now })

	require.NoError(t, store.Set(context.Background(), "s1", "stale", time.Hour))
	now = now.Add(time.Hour + time.Second)

	won, err := store.SetIfAbsent(context.Background(), "s1", "fresh", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "fresh", won)
}

func TestMemoryStore_ExpiredBindingIsGone(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := tokenstore.NewMemoryStore(func() time.Time { return now })

	require.NoError(t, store.Set(context.Background(), "s1", "tok", time.Hour))

	now = now.Add(time.Hour + time.Second)
	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

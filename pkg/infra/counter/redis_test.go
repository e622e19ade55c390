package counter_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/infra/counter"
)

func TestRedisStore_FirstIncrementSetsExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Unix(1740730536, 0)
	store := counter.NewRedisStore(client, func() time.Time { return now })

	mock.ExpectIncr("k").SetVal(1)
	mock.ExpectPExpire("k", time.Minute).SetVal(true)
	mock.ExpectPTTL("k").SetVal(time.Minute)

	w, err := store.Incr(context.Background(), "k", time.Minute, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.Count)
	assert.Equal(t, now, w.Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SubsequentIncrement(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Unix(1740730536, 0)
	store := counter.NewRedisStore(client, func() time.Time { return now })

	mock.ExpectIncr("k").SetVal(3)
	mock.ExpectPTTL("k").SetVal(30 * time.Second)

	w, err := store.Incr(context.Background(), "k", time.Minute, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.Count)
	// 30s elapsed of a 60s window.
	assert.Equal(t, now.Add(-30*time.Second), w.Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_CountClampedAtCap(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := counter.NewRedisStore(client, func() time.Time { return time.Unix(1740730536, 0) })

	mock.ExpectIncr("k").SetVal(7)
	mock.ExpectDecr("k").SetVal(6)
	mock.ExpectPTTL("k").SetVal(10 * time.Second)

	w, err := store.Incr(context.Background(), "k", time.Minute, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), w.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RestoresLostExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Unix(1740730536, 0)
	store := counter.NewRedisStore(client, func() time.Time { return now })

	mock.ExpectIncr("k").SetVal(2)
	mock.ExpectPTTL("k").SetVal(-1 * time.Millisecond)
	mock.ExpectPExpire("k", time.Minute).SetVal(true)

	w, err := store.Incr(context.Background(), "k", time.Minute, 6)
	require.NoError(t, err)
	assert.Equal(t, now, w.Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

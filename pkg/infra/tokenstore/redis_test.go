package tokenstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/infra/tokenstore"
)

func TestRedisStore_SetAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	mock.ExpectSet("csrf:s1", "tok1", time.Hour).SetVal("OK")
	mock.ExpectGet("csrf:s1").SetVal("tok1")

	require.NoError(t, store.Set(context.Background(), "s1", "tok1", time.Hour))
	token, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	mock.ExpectGet("csrf:absent").RedisNil()

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetIfAbsentClaimsFreeSession(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	mock.ExpectSetNX("csrf:s1", "tok1", time.Hour).SetVal(true)

	won, err := store.SetIfAbsent(context.Background(), "s1", "tok1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "tok1", won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetIfAbsentKeepsExistingBinding(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	mock.ExpectSetNX("csrf:s1", "second", time.Hour).SetVal(false)
	mock.ExpectGet("csrf:s1").SetVal("first")

	won, err := store.SetIfAbsent(context.Background(), "s1", "second", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "first", won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetIfAbsentRetriesWhenBindingExpires(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	// The binding vanishes between the failed SetNX and the Get; the
	// store claims the session on the next round.
	mock.ExpectSetNX("csrf:s1", "tok", time.Hour).SetVal(false)
	mock.ExpectGet("csrf:s1").RedisNil()
	mock.ExpectSetNX("csrf:s1", "tok", time.Hour).SetVal(true)

	won, err := store.SetIfAbsent(context.Background(), "s1", "tok", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "tok", won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := tokenstore.NewRedisStore(client)

	mock.ExpectDel("csrf:s1").SetVal(1)

	assert.NoError(t, store.Delete(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

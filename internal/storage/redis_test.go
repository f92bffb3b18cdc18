package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_Get(t *testing.T) {
	store, mr := setupTestRedis(t, 0)

	require.NoError(t, mr.Set(storageKey("cart"), `[{"id":"1"}]`))

	v, err := store.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupTestRedis(t, 0)

	_, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SetWithoutTTL(t *testing.T) {
	store, mr := setupTestRedis(t, 0)

	require.NoError(t, store.Set(context.Background(), "cart", "[]"))

	stored, err := mr.Get(storageKey("cart"))
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)
	assert.Equal(t, time.Duration(0), mr.TTL(storageKey("cart")))
}

func TestRedisStore_SetWithTTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, store.Set(context.Background(), "cart", "[]"))
	assert.Equal(t, time.Hour, mr.TTL(storageKey("cart")))
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, mr.Set(storageKey("cart"), "[]"))
	require.NoError(t, store.Delete(ctx, "cart"))
	assert.False(t, mr.Exists(storageKey("cart")))

	// Deleting non-existent key should not error
	assert.NoError(t, store.Delete(ctx, "cart"))
}

func TestRedisStore_ServerError(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	mr.SetError("ERR simulated failure")

	err := store.Set(context.Background(), "cart", "[]")
	assert.ErrorContains(t, err, "redis set failed")

	_, err = store.Get(context.Background(), "cart")
	assert.ErrorContains(t, err, "redis get failed")
}

func TestStorageKey_Format(t *testing.T) {
	assert.Equal(t, "storefront:cart", storageKey("cart"))
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisKV(t *testing.T) *RedisKV {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisKV(client)
}

func TestRedisKV_GetMiss(t *testing.T) {
	kv := setupRedisKV(t)

	_, err := kv.Get(context.Background(), "no-such-key")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_SetGet(t *testing.T) {
	kv := setupRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestRedisKV_Del(t *testing.T) {
	kv := setupRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, kv.Del(ctx, "k"))

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

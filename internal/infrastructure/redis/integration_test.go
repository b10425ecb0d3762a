//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/warehouse-api/internal/infrastructure/redis"
	"github.com/jhoicas/warehouse-api/pkg/config"
)

func newRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)

	client, err := redis.NewClient(ctx, config.RedisConfig{Addr: opts.Addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client, err := redis.NewClient(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestIdempotencyStore_Redis(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	store := redis.NewIdempotencyStore(client, time.Minute)

	ok, err := store.Claim(ctx, "fulfill:o1:k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, "fulfill:o1:k1")
	require.NoError(t, err)
	assert.False(t, ok, "la clave ya está reclamada")

	_, done, err := store.Response(ctx, "fulfill:o1:k1")
	require.NoError(t, err)
	assert.False(t, done, "en curso")

	require.NoError(t, store.Complete(ctx, "fulfill:o1:k1", []byte(`{"status":"Partial"}`)))
	body, done, err := store.Response(ctx, "fulfill:o1:k1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.JSONEq(t, `{"status":"Partial"}`, string(body))

	ttl, err := client.TTL(ctx, "idem:fulfill:o1:k1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Release(ctx, "fulfill:o1:k1"))
	ok, err = store.Claim(ctx, "fulfill:o1:k1")
	require.NoError(t, err)
	assert.True(t, ok, "liberada se puede reclamar de nuevo")
}

package redis

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := NewClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyStore_ClaimUnaSolaVez(t *testing.T) {
	store := NewIdempotencyStore(getRedisClient(t), time.Minute)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	var claimed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Claim(ctx, key)
			assert.NoError(t, err)
			if ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), claimed.Load())

	require.NoError(t, store.Release(ctx, key))
	ok, err := store.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "después de Release la llave se puede reutilizar")
}

func TestIdempotencyStore_TTL(t *testing.T) {
	client := getRedisClient(t)
	store := NewIdempotencyStore(client, 0)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	ok, err := store.Claim(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	ttl, err := client.TTL(ctx, idempotencyKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.InDelta(t, defaultTTL.Seconds(), ttl.Seconds(), 5)
}

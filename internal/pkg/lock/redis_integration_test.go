//go:build integration

package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	client := newRedisClient(t)
	l := NewRedisLocker(client, 5*time.Second)

	var mu sync.Mutex
	holders := 0
	maxHolders := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "w-1")
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			holders++
			if holders > maxHolders {
				maxHolders = holders
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxHolders)
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	l := NewRedisLocker(client, 50*time.Millisecond)

	unlock, err := l.Lock(ctx, "w-1")
	require.NoError(t, err)

	// Let the lock expire and hand it to someone else.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, client.Set(ctx, keyPrefix+"w-1", "other", time.Minute).Err())

	unlock()

	val, err := client.Get(ctx, keyPrefix+"w-1").Result()
	require.NoError(t, err)
	assert.Equal(t, "other", val)
}

func TestRedisLocker_Timeout(t *testing.T) {
	client := newRedisClient(t)
	l := NewRedisLocker(client, time.Minute)
	l.wait = 50 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "w-1")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(context.Background(), "w-1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

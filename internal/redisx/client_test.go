package redisx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLockerExclusive(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := &Locker{RDB: rdb, TTL: time.Second}
	ctx := context.Background()

	release, err := l.Lock(ctx, "o1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "o1")
	require.ErrorIs(t, err, ErrLocked)

	other, err := l.Lock(ctx, "o2")
	require.NoError(t, err)
	other()

	release()
	ok, err := keyExists(ctx, rdb, fmt.Sprintf(KeyOrderLock, "o1"))
	require.NoError(t, err)
	require.False(t, ok)

	release, err = l.Lock(ctx, "o1")
	require.NoError(t, err)
	release()
}

func TestLockerReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := &Locker{RDB: rdb, TTL: time.Second}
	ctx := context.Background()

	release, err := l.Lock(ctx, "o1")
	require.NoError(t, err)

	// our lock expired and someone else took it
	mr.FastForward(2 * time.Second)
	_, err = l.Lock(ctx, "o1")
	require.NoError(t, err)

	release()
	ok, err := keyExists(ctx, rdb, fmt.Sprintf(KeyOrderLock, "o1"))
	require.NoError(t, err)
	require.True(t, ok)
}

func keyExists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("lock held by another owner")

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker hands out short-lived per-order locks (SET NX + TTL).
type Locker struct {
	RDB *redis.Client
	TTL time.Duration
}

// Lock takes lock:order:{id}. It returns ErrLocked if someone else holds it,
// otherwise a release func the caller must defer.
func (l *Locker) Lock(ctx context.Context, orderID string) (func(), error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = TTLOrderLock
	}
	key := fmt.Sprintf(KeyOrderLock, orderID)
	token := uuid.NewString()

	ok, err := l.RDB.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// release on a fresh context: the request one may already be done
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.RDB, []string{key}, token).Err()
	}, nil
}

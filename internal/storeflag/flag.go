// Package storeflag holds the storefront open/closed switch. The value lives
// in redis; every change is also published on a pub/sub channel so open
// sessions can react without polling.
package storeflag

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
)

type Flag struct {
	RDB *redis.Client
	Log *zap.Logger
}

func encode(closed bool) string {
	if closed {
		return "1"
	}
	return "0"
}

// Closed reports whether the store is closed. An unset flag means open.
func (f *Flag) Closed(ctx context.Context) (bool, error) {
	v, err := f.RDB.Get(ctx, redisx.KeyStoreClosed).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// SetClosed stores the flag and notifies subscribers.
func (f *Flag) SetClosed(ctx context.Context, closed bool) error {
	v := encode(closed)
	if err := f.RDB.Set(ctx, redisx.KeyStoreClosed, v, 0).Err(); err != nil {
		return err
	}
	if err := f.RDB.Publish(ctx, redisx.ChannelStoreStatus, v).Err(); err != nil {
		return err
	}
	f.Log.Info("store status changed", zap.Bool("closed", closed))
	return nil
}

// Subscribe calls fn with the new value on every change until ctx is done or
// the returned unsubscribe func is called. unsubscribe waits for the
// delivery goroutine to exit, so fn is never called after it returns.
func (f *Flag) Subscribe(ctx context.Context, fn func(closed bool)) (unsubscribe func(), err error) {
	ps := f.RDB.Subscribe(ctx, redisx.ChannelStoreStatus)
	// wait for the subscription confirmation so no change is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(msg.Payload == "1")
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = ps.Close()
			wg.Wait()
		})
	}, nil
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
)

const defaultRetryInterval = 100 * time.Millisecond

// Redis shares series locks between instances through a Redis server. A lock
// that is not released expires after its TTL.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
	log    *slog.Logger
}

func NewRedis(rdb redislock.RedisClient, ttl time.Duration, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}

	return &Redis{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  defaultRetryInterval,
		prefix: "finny:lock:",
		log:    log,
	}
}

func (r *Redis) TryLock(ctx context.Context, key string) (func(), bool, error) {
	l, err := r.client.Obtain(ctx, r.prefix+key, r.ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("obtaining redis lock: %w", err)
	}

	return r.releaser(l), true, nil
}

// Lock retries until the key is obtained or ctx is done. Without a deadline
// on ctx the wait is bounded by the lock TTL.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(r.retry)}

	l, err := r.client.Obtain(ctx, r.prefix+key, r.ttl, opts)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, fmt.Errorf("obtaining redis lock: %w", err)
	}

	return r.releaser(l), nil
}

func (r *Redis) releaser(l *redislock.Lock) func() {
	return func() {
		// Release must succeed even when the caller's context is already done.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.log.Warn("releasing redis lock", "key", l.Key(), "error", err)
		}
	}
}

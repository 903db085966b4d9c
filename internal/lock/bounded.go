package lock

import (
	"context"
	"time"
)

type Locker interface {
	TryLock(ctx context.Context, key string) (func(), bool, error)
	Lock(ctx context.Context, key string) (func(), error)
}

// Bounded caps how long Lock waits, on top of any deadline the caller's
// context already carries.
func Bounded(l Locker, wait time.Duration) Locker {
	if wait <= 0 {
		return l
	}

	return &bounded{Locker: l, wait: wait}
}

type bounded struct {
	Locker
	wait time.Duration
}

func (b *bounded) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, b.wait)
	defer cancel()

	return b.Locker.Lock(ctx, key)
}

// Package lock provides per-key mutual exclusion for scheduled series.
package lock

import (
	"context"
	"sync"
)

// Keyed is an in-process lock table. Keys are independent; holding one key
// never blocks another.
type Keyed struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewKeyed() *Keyed {
	return &Keyed{held: make(map[string]chan struct{})}
}

func (k *Keyed) TryLock(_ context.Context, key string) (func(), bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.held[key]; ok {
		return nil, false, nil
	}

	return k.acquire(key), true, nil
}

// Lock blocks until key is free or ctx is done.
func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	for {
		k.mu.Lock()

		released, ok := k.held[key]
		if !ok {
			unlock := k.acquire(key)
			k.mu.Unlock()

			return unlock, nil
		}

		k.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// acquire must be called with k.mu held.
func (k *Keyed) acquire(key string) func() {
	released := make(chan struct{})
	k.held[key] = released

	var once sync.Once

	return func() {
		once.Do(func() {
			k.mu.Lock()
			delete(k.held, key)
			k.mu.Unlock()

			close(released)
		})
	}
}

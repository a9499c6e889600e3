package bus

import (
	"context"
	"sync"
)

// MemoryBus is the in-process bus. Publish runs every subscribed callback
// synchronously; there is nothing to propagate beyond this process.
type MemoryBus struct {
	mu   sync.Mutex
	subs []func()
}

// NewMemoryBus creates an in-process invalidation bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// Publish runs all subscribed callbacks.
func (b *MemoryBus) Publish(ctx context.Context) error {
	b.mu.Lock()
	subs := make([]func(), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

// Subscribe registers fn and blocks until ctx is canceled.
func (b *MemoryBus) Subscribe(ctx context.Context, fn func()) error {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Close releases resources (none for the memory bus).
func (b *MemoryBus) Close() error {
	return nil
}

// Package bus broadcasts settings-cache invalidations between processes.
// A single-process deployment uses the memory bus (invalidation is local);
// multi-replica deployments use the Valkey bus so an admin write on one
// replica drops the cached configs on all of them.
package bus

import "context"

// InvalidationBus propagates "settings changed" notifications.
type InvalidationBus interface {
	// Publish notifies all subscribers (including other processes) that the
	// platform settings changed.
	Publish(ctx context.Context) error

	// Subscribe registers fn to run on every notification. Blocks until ctx
	// is canceled; run it in its own goroutine.
	Subscribe(ctx context.Context, fn func()) error

	// Close releases bus resources.
	Close() error
}

package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

// invalidationChannel is the pub/sub channel settings invalidations travel on.
const invalidationChannel = "solera:settings:invalidate"

// ValkeyBus broadcasts invalidations over Valkey pub/sub so every replica
// drops its settings cache when any replica takes an admin write.
type ValkeyBus struct {
	client valkey.Client
}

// NewValkeyBus connects to Valkey and verifies the connection.
func NewValkeyBus(addr string) (*ValkeyBus, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pingCmd := client.B().Ping().Build()
	if err := client.Do(ctx, pingCmd).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("Initialized Valkey invalidation bus", "address", addr, "channel", invalidationChannel)
	return &ValkeyBus{client: client}, nil
}

// Publish broadcasts an invalidation. The message body carries no data; the
// event itself is the signal.
func (b *ValkeyBus) Publish(ctx context.Context) error {
	cmd := b.client.B().Publish().Channel(invalidationChannel).Message("").Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe runs fn on every invalidation message until ctx is canceled.
func (b *ValkeyBus) Subscribe(ctx context.Context, fn func()) error {
	cmd := b.client.B().Subscribe().Channel(invalidationChannel).Build()
	err := b.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
		fn()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("invalidation subscription failed: %w", err)
	}
	return ctx.Err()
}

// Close shuts down the Valkey client.
func (b *ValkeyBus) Close() error {
	b.client.Close()
	return nil
}

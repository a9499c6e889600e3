package server

import (
	"context"
	"testing"
	"time"
)

func TestRunShutsDownOnContextCancel(t *testing.T) {
	t.Setenv("SOLERA_DATABASE_DSN", ":memory:")
	t.Setenv("SOLERA_SERVER_PORT", "0") // ephemeral port
	t.Setenv("SOLERA_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, Config{Version: "test"})
	}()

	// Let the bootstrap finish, then request shutdown.
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned error on clean shutdown: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

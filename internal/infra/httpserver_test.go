package infra

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestHTTPServerStartReturnsNilAfterShutdown(t *testing.T) {
	cfg := &Config{
		Port:             "0",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: time.Second,
		HTTPIdleTimeout:  time.Second,
	}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Start() after shutdown = %v, want nil", err)
	}
}

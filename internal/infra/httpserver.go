package infra

import (
	"context"
	"net/http"
	"time"
)

// Presign responses and job payloads are small JSON; a modest header cap is
// plenty and bounds abuse on the unauthenticated health route.
const maxRequestHeaderBytes = 64 << 10

// HTTPServer runs the job API with the timeout surface from Config. Uploads
// never stream through this server (clients PUT directly against presigned
// storage URLs), so read/write timeouts can stay tight.
type HTTPServer struct {
	server *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    maxRequestHeaderBytes,
	}}
}

// Start serves until the listener closes. A shutdown-initiated close is not
// an error from the caller's point of view, so it is swallowed here.
func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests. Poll requests are quick, so the
// caller's deadline is the effective bound.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer is the service's http.Server with the timeouts taken from
// configuration and a graceful shutdown hook.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server around the given handler.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
		},
	}
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. It returns http.ErrServerClosed after a graceful shutdown.
func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown stops accepting new requests and drains in-flight ones until ctx
// expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

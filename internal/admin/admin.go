// Package admin serves the local introspection API: the extension-point
// catalog, the registered handler table, health, and Prometheus metrics.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davrell/graft/pkg/hook"
)

// Server is the introspection HTTP server. It is read-only except for
// nothing: no endpoint mutates the registry.
type Server struct {
	hooks     *hook.Manager
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	server    *http.Server
	startedAt time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the Prometheus gatherer backing /metrics. Defaults
// to the global gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New creates an introspection server for the given hook manager.
func New(hooks *hook.Manager, opts ...Option) *Server {
	s := &Server{
		hooks:    hooks,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "admin")
	return s
}

// Router constructs the chi mux with all routes wired.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth())
	r.Get("/hooks", s.handleListHooks())
	r.Get("/hooks/{kind}", s.handleGetHook())
	r.Get("/handlers", s.handleListHandlers())
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(listen string) error {
	s.startedAt = time.Now()
	s.server = &http.Server{
		Addr:         listen,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", listen)
	if err != nil {
		return errors.New("admin: listen failed: " + err.Error())
	}

	go func() {
		s.logger.Info("admin listening", "addr", listen)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("admin serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("admin shutting down")
	return s.server.Shutdown(ctx)
}

// Package server exposes interactive mesh sessions over HTTP.
//
// The visualizer posts an architecture description once, receives the
// full SVG together with a session id, and then posts attribute
// configurations against that session. Each configuration answers with
// the minimal update payload ({style, informationGroup, viewBox}) that
// replaces the dynamic parts of the document already on screen.
//
// # Routes
//
//	POST   /api/v1/sessions                   description JSON -> {id, svg}
//	GET    /api/v1/sessions/{id}/svg          current full SVG
//	POST   /api/v1/sessions/{id}/configuration configuration JSON -> update payload
//	POST   /api/v1/sessions/{id}/clip-path    {"points": "..."}; empty clears
//	DELETE /api/v1/sessions/{id}
//	GET    /healthz
//	GET    /metrics                           when a metrics handler is set
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/meshview/pkg/httputil"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/session"
	"github.com/matzehuels/meshview/pkg/settings"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

// Server serves the session API.
type Server struct {
	runner   *pipeline.Runner
	store    session.Store
	metrics  http.Handler
	logger   *log.Logger
	settings settings.ServerSettings
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the session store. The default keeps sessions in memory.
func WithStore(store session.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server that composes documents with runner.
func New(runner *pipeline.Runner, cfg settings.ServerSettings, opts ...Option) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = settings.Default().Server.MaxBodyBytes
	}
	s := &Server{
		runner:   runner,
		logger:   log.Default(),
		settings: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(cfg.SessionTTL)
	}
	return s
}

// Store returns the session store.
func (s *Server) Store() session.Store { return s.store }

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httputil.Observe)
	r.Use(httputil.Recover(s.logger))

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(httputil.BodySizeLimit(s.settings.MaxBodyBytes))
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Get("/svg", s.getSVG)
			r.Post("/configuration", s.configure)
			r.Post("/clip-path", s.setClipPath)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.RunCleanup(ctx, s.store, cleanupInterval)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

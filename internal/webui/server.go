// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package webui serves the browser front end: the form, the results area and
// the supported platforms list, rendered on the server.
package webui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/vidgrab/internal/health"
	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/view"
	"github.com/ManuGH/vidgrab/internal/webui/middleware"
)

const (
	maxFormBytes         = 64 << 10
	backendCheckTimeout  = 3 * time.Second
	defaultShutdownGrace = 10 * time.Second

	// platformsWait is how long a page render waits for the platforms list
	// before showing it as loading.
	platformsWait        = 500 * time.Millisecond
	platformsLoadTimeout = 30 * time.Second
)

// Config configures the web UI server. Downloads are streamed to the browser
// from memory; the server never writes them to disk.
type Config struct {
	Listen          string
	ShutdownTimeout time.Duration
	Version         string
	// Tracing wraps the router with otelhttp.
	Tracing        bool
	AllowedOrigins []string
	SecureCookies  bool
}

// Server is the web UI HTTP server.
type Server struct {
	cfg      Config
	backend  *swappableBackend
	sessions *sessionStore
	health   *health.Manager
	handler  http.Handler
	logger   zerolog.Logger

	// Background platform loads outlive the page request that started them.
	bgCtx  context.Context
	bgStop context.CancelFunc
	bg     sync.WaitGroup
}

// New builds the server and its routes. It does not listen yet.
func New(cfg Config, backend Backend) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownGrace
	}
	s := &Server{
		cfg:     cfg,
		backend: newSwappableBackend(backend),
		health:  health.NewManager(cfg.Version),
		logger:  vlog.WithComponent("webui"),
	}
	s.bgCtx, s.bgStop = context.WithCancel(context.Background())
	s.sessions = newSessionStore(func(d view.Display) *view.Controller {
		return view.NewController(s.backend, d, browserSaver{})
	})
	s.sessions.secure = cfg.SecureCookies

	s.health.RegisterChecker(health.NewBackendChecker(s.backend, backendCheckTimeout))

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	stack := middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		EnableMetrics:  true,
		EnableLogging:  true,
	}
	if s.cfg.Tracing {
		stack.TracingService = "vidgrab-webui"
	}
	r := middleware.NewRouter(stack)

	r.Get("/", s.handleIndex)
	r.Route("/ui", func(r chi.Router) {
		r.Post("/info", s.handleInfo)
		r.Post("/formats", s.handleFormats)
		r.Post("/download", s.handleDownload)
		r.Post("/audio-only", s.handleAudioOnly)
	})
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Handler returns the root handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Reconfigure points all sessions at a new backend. Used on config reload;
// the listen address and cookie flags are fixed for the process.
func (s *Server) Reconfigure(backend Backend) {
	if backend == nil {
		return
	}
	s.backend.set(backend)
	s.logger.Info().
		Str(vlog.FieldEvent, "webui.reconfigured").
		Msg("web UI reconfigured")
}

// Close cancels background platform loads and waits for them to finish.
// Serve calls it on shutdown.
func (s *Server) Close() {
	s.bgStop()
	s.bg.Wait()
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(vlog.FieldEvent, "webui.listening").
			Str("addr", ln.Addr().String()).
			Msg("web UI listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web UI server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Str(vlog.FieldEvent, "webui.shutdown").Msg("shutting down web UI")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("web UI shutdown: %w", err)
	}
	return <-errCh
}

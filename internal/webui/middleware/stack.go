// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package middleware provides the HTTP ingress stack for the web UI.
package middleware

import (
	"github.com/go-chi/chi/v5"

	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/metrics"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	CSP            string
	AllowedOrigins []string
	// TracingService names the otelhttp operation; empty disables tracing.
	TracingService string
	EnableMetrics  bool
	EnableLogging  bool
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. Security headers
	r.Use(SecurityHeaders(cfg.CSP))
	// 4. Same-origin check for form posts
	r.Use(CSRFProtection(cfg.AllowedOrigins))
	// 5. Metrics (track all requests)
	if cfg.EnableMetrics {
		r.Use(metrics.Middleware())
	}
	// 6. Tracing
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
	// 7. Logging (wraps handlers, captures full latency)
	if cfg.EnableLogging {
		r.Use(vlog.Middleware())
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the prometheus collectors shared by the backend
// client, the UI controller and the web server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for backend calls.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeRemote     = "remote"
	OutcomeNetwork    = "network"
	OutcomeMalformed  = "malformed"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidgrab_backend_requests_total",
		Help: "Backend API calls by operation and outcome",
	}, []string{
		"op",      // info|formats|download|platforms|health
		"outcome", // success|validation|remote|network|malformed
	})

	backendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidgrab_backend_request_duration_seconds",
		Help:    "Backend API call latency in seconds (network calls only)",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"op"})

	downloadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidgrab_download_bytes_total",
		Help: "Total payload bytes received from the download endpoint",
	})

	staleResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidgrab_ui_stale_results_total",
		Help: "Results discarded because a newer operation superseded them",
	}, []string{"op"})

	platformsUnavailableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidgrab_platforms_unavailable_total",
		Help: "Times the supported-platforms list degraded to the placeholder",
	})
)

// ObserveBackendRequest records the outcome of one backend call. A zero
// duration (validation failures) skips the latency histogram.
func ObserveBackendRequest(op, outcome string, d time.Duration) {
	backendRequestsTotal.WithLabelValues(op, outcome).Inc()
	if d > 0 {
		backendRequestDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// AddDownloadBytes counts received download payload bytes.
func AddDownloadBytes(n int) {
	if n > 0 {
		downloadBytesTotal.Add(float64(n))
	}
}

// IncStaleResult counts a result dropped by the UI controller.
func IncStaleResult(op string) {
	staleResultsTotal.WithLabelValues(op).Inc()
}

// IncPlatformsUnavailable counts a degraded platforms list.
func IncPlatformsUnavailable() {
	platformsUnavailableTotal.Inc()
}

// BackendRequests exposes the counter for tests in other packages.
func BackendRequests() *prometheus.CounterVec {
	return backendRequestsTotal
}

// StaleResults exposes the counter for tests in other packages.
func StaleResults() *prometheus.CounterVec {
	return staleResultsTotal
}

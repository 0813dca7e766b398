// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"time"

	"github.com/ManuGH/vidgrab/internal/validate"
)

// Validate checks the effective configuration. The download directory may
// be missing; it is created on first save.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.URL("api.base_url", cfg.API.BaseURL, []string{"http", "https"})
	v.Duration("api.timeout", cfg.API.Timeout, time.Second, 24*time.Hour)

	v.ListenAddr("server.listen", cfg.Server.Listen)
	v.Duration("server.shutdown_timeout", cfg.Server.ShutdownTimeout, 0, 10*time.Minute)

	v.Directory("download.dir", cfg.Download.Dir, false)

	if _, err := validate.ParseLogLevel(cfg.Log.Level); err != nil {
		v.AddError("log.level", "must be one of trace, debug, info, warn, error", cfg.Log.Level)
	}

	if cfg.Tracing.Enabled {
		v.OneOf("tracing.exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("tracing.endpoint", cfg.Tracing.Endpoint)
		v.Fraction("tracing.sampling_rate", cfg.Tracing.SamplingRate)
	}

	return v.Err()
}

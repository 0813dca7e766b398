// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ManuGH/vidgrab/internal/config"
	"github.com/ManuGH/vidgrab/internal/log"
)

// PerformStartupChecks validates the environment before `serve` starts
// listening. api may be nil; an unreachable backend only logs a warning
// because the UI still renders (with the platforms placeholder). The web UI
// streams downloads from memory, so the download directory is not checked.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig, api HealthReporter) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	if err := checkListenAddr(logger, cfg.Server.Listen); err != nil {
		return fmt.Errorf("listen address check failed: %w", err)
	}
	if err := checkBaseURL(logger, cfg.API.BaseURL); err != nil {
		return fmt.Errorf("backend URL check failed: %w", err)
	}

	if api != nil {
		res := NewBackendChecker(api, cfg.API.Timeout).Check(ctx)
		if res.Status != StatusHealthy {
			logger.Warn().
				Str(log.FieldBaseURL, cfg.API.BaseURL).
				Str("reason", res.Message).
				Msg("backend not healthy at startup")
		} else {
			logger.Info().Str("backend", res.Message).Msg("backend reachable")
		}
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}

func checkListenAddr(logger zerolog.Logger, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 0 || portNum > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, addr)
	}
	logger.Info().Str("addr", addr).Msg("listen address is valid")
	return nil
}

func checkBaseURL(logger zerolog.Logger, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", config.EnvAPIBase, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", config.EnvAPIBase, u.Scheme)
	}
	logger.Info().Str(log.FieldBaseURL, raw).Msg("backend URL is valid")
	return nil
}

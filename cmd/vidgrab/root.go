// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/vidgrab/internal/config"
	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/platform/httpx"
	"github.com/ManuGH/vidgrab/internal/vidapi"
	"github.com/ManuGH/vidgrab/internal/version"
)

// app carries the loaded configuration and flag overrides to subcommands.
type app struct {
	stdout, stderr io.Writer

	configPath string
	apiBase    string
	logLevel   string

	loader *config.Loader
	cfg    config.AppConfig
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "vidgrab",
		Short:         "Fetch video info, formats and downloads from a video backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file (YAML)")
	pf.StringVar(&a.apiBase, "api-base", "", "backend base URL (overrides "+config.EnvAPIBase+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newInfoCmd(a),
		newFormatsCmd(a),
		newDownloadCmd(a),
		newPlatformsCmd(a),
		newHealthCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
		newConfigCmd(a),
	)
	return root
}

// loadConfig reads file and env, applies flag overrides and configures logging.
func (a *app) loadConfig() error {
	a.loader = config.NewLoader(strings.TrimSpace(a.configPath), version.Version)
	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	a.applyOverrides(&cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	vlog.Configure(vlog.Config{
		Level:   cfg.Log.Level,
		Output:  a.stderr,
		Version: version.Version,
	})
	return nil
}

// applyOverrides applies flags on top of a loaded config. Also used for
// hot-reloaded configs so flags keep precedence.
func (a *app) applyOverrides(cfg *config.AppConfig) {
	if v := strings.TrimSpace(a.apiBase); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(a.logLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// newClient builds a backend client for cfg.
func newClient(cfg config.AppConfig) *vidapi.Client {
	ua := cfg.API.UserAgent
	if ua == "" {
		ua = "vidgrab/" + version.Version
	}
	hc := httpx.NewClient(httpx.Options{
		Timeout:   cfg.API.Timeout,
		UserAgent: ua,
		Tracing:   cfg.Tracing.Enabled,
	})
	return vidapi.New(cfg.API.BaseURL, vidapi.WithHTTPClient(hc))
}

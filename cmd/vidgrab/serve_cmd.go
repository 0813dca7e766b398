// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/vidgrab/internal/config"
	"github.com/ManuGH/vidgrab/internal/health"
	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/telemetry"
	"github.com/ManuGH/vidgrab/internal/version"
	"github.com/ManuGH/vidgrab/internal/webui"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		listen  string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				a.cfg.Server.Listen = listen
			}
			return a.serve(cmd.Context(), origins)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides server.listen)")
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", nil, "extra origin allowed to post forms (repeatable)")
	return cmd
}

func (a *app) serve(ctx context.Context, origins []string) error {
	cfg := a.cfg
	logger := vlog.WithComponent("serve")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "vidgrab",
		ServiceVersion: version.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	client := newClient(cfg)
	if err := health.PerformStartupChecks(ctx, cfg, client); err != nil {
		return err
	}

	srv := webui.New(webui.Config{
		Listen:          cfg.Server.Listen,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Version:         version.Version,
		Tracing:         cfg.Tracing.Enabled,
		AllowedOrigins:  origins,
		SecureCookies:   cfg.Server.SecureCookies,
	}, client)

	holder := config.NewConfigHolder(cfg, a.loader)
	reloads := make(chan config.AppConfig, 1)
	holder.RegisterListener(reloads)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		if err := holder.StartWatcher(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		holder.Stop()
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case next := <-reloads:
				a.applyOverrides(&next)
				vlog.Configure(vlog.Config{Level: next.Log.Level, Output: a.stderr, Version: version.Version})
				srv.Reconfigure(newClient(next))
			}
		}
	})

	logger.Info().
		Str(vlog.FieldEvent, "serve.start").
		Str("addr", cfg.Server.Listen).
		Str(vlog.FieldBaseURL, cfg.API.BaseURL).
		Msg("starting web UI")
	return g.Wait()
}

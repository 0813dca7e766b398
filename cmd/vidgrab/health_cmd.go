// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/vidgrab/internal/health"
)

func newHealthCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the backend and the download directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ok := a.report(a.cfg.API.BaseURL, health.NewBackendChecker(newClient(a.cfg), timeout).Check(ctx))
			// A missing directory is degraded, not fatal: download creates it.
			ok = a.report(a.cfg.Download.Dir, health.NewDirChecker(a.cfg.Download.Dir).Check(ctx)) && ok
			if !ok {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "check timeout")
	return cmd
}

// report prints one check line and returns false when the check is unhealthy.
func (a *app) report(target string, res health.CheckResult) bool {
	reason := res.Message
	if reason == "" {
		reason = res.Error
	}
	fmt.Fprintf(a.stdout, "%s: %s (%s)\n", target, res.Status, reason)
	return res.Status != health.StatusUnhealthy
}

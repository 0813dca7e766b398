// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration, then print the effective values",
		Args:  cobra.NoArgs,
		// Loading and validation happen in the root's PersistentPreRunE.
		RunE: func(*cobra.Command, []string) error {
			source := "environment and defaults"
			if p := a.loader.Path(); p != "" {
				source = p
			}
			fmt.Fprintf(a.stdout, "configuration valid (%s)\n%s\n", source, a.cfg)
			return nil
		},
	})
	return cmd
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ManuGH/vidgrab/internal/fsutil"
	"github.com/ManuGH/vidgrab/internal/render"
	"github.com/ManuGH/vidgrab/internal/view"
)

// controller wires a view controller printing to the terminal.
func (a *app) controller(saver view.Saver) (*view.Controller, *textDisplay) {
	d := &textDisplay{out: a.stdout, progress: a.stderr}
	return view.NewController(newClient(a.cfg), d, saver), d
}

// finish maps the shown panel to the exit status.
func finish(p render.Panel, d *textDisplay) error {
	if d.lastErr != nil {
		return d.lastErr
	}
	if p.IsError() {
		return exitError{code: 1}
	}
	return nil
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info URL",
		Short: "Show video metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, d := a.controller(nil)
			c.SetURL(args[0])
			p, _ := c.GetInfo(cmd.Context())
			return finish(p, d)
		},
	}
}

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats URL",
		Short: "List available formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, d := a.controller(nil)
			c.SetURL(args[0])
			p, _ := c.GetFormats(cmd.Context())
			return finish(p, d)
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	var (
		format    string
		audioOnly bool
		output    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a video into the download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Download.Dir
			if output != "" {
				dir = output
			}
			saver := fsutil.DownloadSaver{
				Dir:       dir,
				Overwrite: overwrite || a.cfg.Download.Overwrite,
			}
			c, d := a.controller(saver)
			c.SetURL(args[0])
			if audioOnly {
				c.ToggleAudioOnly(true)
			}
			if format != "" {
				c.SetFormat(format)
			}
			p, _ := c.Download(cmd.Context())
			return finish(p, d)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", view.DefaultFormat, "format selector (ignored with --audio-only)")
	f.BoolVar(&audioOnly, "audio-only", false, "download the best audio stream only")
	f.StringVarP(&output, "output", "o", "", "directory to save into (default: download.dir)")
	f.BoolVar(&overwrite, "overwrite", false, "replace an existing file instead of picking a new name")
	return cmd
}

func newPlatformsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List platforms supported by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, d := a.controller(nil)
			c.LoadPlatforms(cmd.Context())
			return d.lastErr
		},
	}
}


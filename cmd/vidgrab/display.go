// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"io"

	"github.com/ManuGH/vidgrab/internal/render"
)

// textDisplay prints panels to stdout and progress to stderr.
type textDisplay struct {
	out, progress io.Writer
	lastErr       error
}

func (d *textDisplay) ShowLoading() {
	fmt.Fprintln(d.progress, "Loading...")
}

func (d *textDisplay) Show(p render.Panel) {
	if err := render.WriteText(d.out, p); err != nil {
		d.lastErr = err
	}
}

func (d *textDisplay) ShowPlatforms(v render.PlatformsView) {
	if err := render.WritePlatformsText(d.out, v); err != nil {
		d.lastErr = err
	}
}

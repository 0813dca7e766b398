// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// WriteHTML writes p as an HTML fragment. Every backend-supplied string is
// escaped by html/template.
func WriteHTML(w io.Writer, p Panel) error {
	return templates.ExecuteTemplate(w, "panel", p)
}

// WritePlatformsHTML writes the platforms list fragment.
func WritePlatformsHTML(w io.Writer, v PlatformsView) error {
	return templates.ExecuteTemplate(w, "platforms", v)
}

// WriteText writes p for a terminal.
func WriteText(w io.Writer, p Panel) error {
	if p.IsError() {
		_, err := fmt.Fprintf(w, "Error: %s\n", p.Message)
		return err
	}
	if _, err := fmt.Fprintln(w, p.Heading); err != nil {
		return err
	}
	switch {
	case p.Info != nil:
		return writeInfoText(w, p.Info)
	case p.Formats != nil:
		return writeFormatsText(w, p.Formats)
	case p.Download != nil:
		return writeDownloadText(w, p.Download)
	}
	return nil
}

// WritePlatformsText writes one platform per line, or the placeholder.
func WritePlatformsText(w io.Writer, v PlatformsView) error {
	if v.Unavailable {
		_, err := fmt.Fprintln(w, v.Placeholder)
		return err
	}
	for _, p := range v.Platforms {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeInfoText(w io.Writer, v *InfoView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", v.Title)
	fmt.Fprintf(tw, "Uploader:\t%s\n", v.Uploader)
	fmt.Fprintf(tw, "Uploaded:\t%s\n", v.UploadDate)
	fmt.Fprintf(tw, "Duration:\t%s\n", v.Duration)
	fmt.Fprintf(tw, "Views:\t%s\n", v.Views)
	fmt.Fprintf(tw, "Platform:\t%s\n", v.Platform)
	fmt.Fprintf(tw, "Formats:\t%d available\n", v.FormatsAvailable)
	if v.WebpageURL != "" {
		fmt.Fprintf(tw, "Page:\t%s\n", v.WebpageURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if v.Description != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", v.Description)
		return err
	}
	return nil
}

func writeFormatsText(w io.Writer, v *FormatsView) error {
	if _, err := fmt.Fprintf(w, "Available formats for: %s\n", v.Title); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT ID\tEXT\tRESOLUTION\tSIZE\tFPS\tNOTE")
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.FormatID, r.Ext, r.Resolution, r.Size, r.FPS, r.Note)
	}
	return tw.Flush()
}

func writeDownloadText(w io.Writer, v *DownloadView) error {
	if v.SavedAs != "" {
		_, err := fmt.Fprintf(w, "Filename: %s\nSaved to: %s (%s)\n", v.Filename, v.SavedAs, v.Size)
		return err
	}
	_, err := fmt.Fprintf(w, "Filename: %s (%s)\n", v.Filename, v.Size)
	return err
}

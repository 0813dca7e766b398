// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/ManuGH/vidgrab/internal/render"
	"github.com/ManuGH/vidgrab/internal/vidapi"
	"github.com/ManuGH/vidgrab/internal/view"
)

//go:embed templates/page.html.tmpl
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html.tmpl"))

type pageData struct {
	Form      view.FormState
	Presets   []vidapi.FormatPreset
	Loading   bool
	Results   template.HTML
	Platforms template.HTML
	Version   string
}

// writePage renders the full page from the form and the display state.
// Fragments come from render, which escapes all backend strings.
func writePage(w io.Writer, form view.FormState, st displayState, version string) error {
	data := pageData{
		Form:    form,
		Presets: view.Presets(),
		Loading: st.loading,
		Version: version,
	}

	var buf bytes.Buffer
	if st.panel != nil {
		if err := render.WriteHTML(&buf, *st.panel); err != nil {
			return err
		}
		data.Results = template.HTML(buf.String()) // #nosec G203 -- produced by html/template
		buf.Reset()
	}
	if st.platforms != nil {
		if err := render.WritePlatformsHTML(&buf, *st.platforms); err != nil {
			return err
		}
		data.Platforms = template.HTML(buf.String()) // #nosec G203 -- produced by html/template
	}

	return pageTemplate.Execute(w, data)
}

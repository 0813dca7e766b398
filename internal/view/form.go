// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package view

import (
	"strings"

	"github.com/ManuGH/vidgrab/internal/vidapi"
)

// Format selectors with special meaning in the form.
const (
	DefaultFormat = "best[height<=720]"
	AudioFormat   = "bestaudio"
)

var presets = []vidapi.FormatPreset{
	{Name: "Best Quality", Selector: "best", Description: "Highest quality available"},
	{Name: "Best 1080p", Selector: "best[height<=1080]", Description: "Best quality up to 1080p"},
	{Name: "Best 720p", Selector: DefaultFormat, Description: "Best quality up to 720p"},
	{Name: "Best 480p", Selector: "best[height<=480]", Description: "Best quality up to 480p"},
	{Name: "Worst Quality", Selector: "worst", Description: "Lowest quality available"},
	{Name: "Audio Only", Selector: AudioFormat, Description: "Best audio quality only"},
}

// Presets returns the selector options in display order.
func Presets() []vidapi.FormatPreset {
	out := make([]vidapi.FormatPreset, len(presets))
	copy(out, presets)
	return out
}

// FormState mirrors the input form. FormatLocked is set while audio-only is on
// and the format selector cannot be changed.
type FormState struct {
	URL          string
	Format       string
	AudioOnly    bool
	FormatLocked bool
}

// NewFormState returns the form as first shown.
func NewFormState() FormState {
	return FormState{Format: DefaultFormat}
}

// SetAudioOnly toggles audio-only mode. Turning it off restores the default
// selector rather than the one chosen before.
func (s *FormState) SetAudioOnly(on bool) {
	s.AudioOnly = on
	s.FormatLocked = on
	if on {
		s.Format = AudioFormat
	} else {
		s.Format = DefaultFormat
	}
}

// SetFormat changes the selector unless it is locked. Empty selects the default.
func (s *FormState) SetFormat(f string) {
	if s.FormatLocked {
		return
	}
	f = strings.TrimSpace(f)
	if f == "" {
		f = DefaultFormat
	}
	s.Format = f
}

// Query snapshots the form for one submit.
func (s FormState) Query() vidapi.VideoQuery {
	q := vidapi.VideoQuery{
		URL:       strings.TrimSpace(s.URL),
		Format:    s.Format,
		AudioOnly: s.AudioOnly,
	}
	if q.AudioOnly {
		q.Format = AudioFormat
	}
	if q.Format == "" {
		q.Format = DefaultFormat
	}
	return q
}

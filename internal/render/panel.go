// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package render turns backend results into display panels and encodes them
// as HTML fragments or terminal text.
package render

import (
	"strconv"
	"unicode/utf8"

	"github.com/ManuGH/vidgrab/internal/format"
	"github.com/ManuGH/vidgrab/internal/vidapi"
)

// Kind distinguishes success panels from error panels.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Panel headings.
const (
	HeadingInfo     = "Video Information Retrieved"
	HeadingFormats  = "Available Formats"
	HeadingDownload = "Download Started"
	HeadingError    = "Error"
)

// PlatformsPlaceholder replaces the platforms list when it cannot be loaded.
const PlatformsPlaceholder = "Unable to load platforms"

const (
	descriptionLimit = 200
	notAvailable     = "N/A"
)

// Panel is the view-model of the results area. Exactly one of Info, Formats,
// Download is set on success panels; error panels carry Message only.
type Panel struct {
	Kind     Kind
	Heading  string
	Info     *InfoView
	Formats  *FormatsView
	Download *DownloadView
	Message  string
}

// IsError reports whether the panel describes a failure.
func (p Panel) IsError() bool {
	return p.Kind == KindError
}

// InfoView holds display strings for one video.
type InfoView struct {
	Title            string
	Uploader         string
	UploadDate       string
	Duration         string
	Views            string
	Platform         string
	FormatsAvailable int
	Thumbnail        string
	Description      string
	WebpageURL       string
}

// FormatsView is a titled table of formats.
type FormatsView struct {
	Title string
	Rows  []FormatRow
}

// FormatRow is one table row, already formatted.
type FormatRow struct {
	FormatID   string
	Ext        string
	Resolution string
	Size       string
	FPS        string
	Note       string
}

// DownloadView confirms a finished download.
type DownloadView struct {
	Filename    string
	SavedAs     string
	Size        string
	ContentType string
}

// PlatformsView is the supported platforms list, or a placeholder.
type PlatformsView struct {
	Platforms   []string
	Unavailable bool
	Placeholder string
}

// Info builds the metadata panel. Absent and zero durations or view counts
// both render as Unknown.
func Info(md vidapi.VideoMetadata) Panel {
	v := &InfoView{
		Title:            md.Title,
		Uploader:         md.Uploader,
		UploadDate:       format.Date(md.UploadDate),
		Duration:         format.Unknown,
		Views:            format.Unknown,
		Platform:         md.Platform,
		FormatsAvailable: md.FormatsAvailable,
	}
	if md.Duration != nil && *md.Duration != 0 {
		v.Duration = format.Duration(*md.DurationSeconds())
	}
	if md.ViewCount != nil && *md.ViewCount != 0 {
		v.Views = format.Number(*md.ViewCount)
	}
	if md.Thumbnail != nil {
		v.Thumbnail = *md.Thumbnail
	}
	if md.Description != nil {
		v.Description = truncate(*md.Description, descriptionLimit)
	}
	if md.WebpageURL != nil {
		v.WebpageURL = *md.WebpageURL
	}
	return Panel{Kind: KindSuccess, Heading: HeadingInfo, Info: v}
}

// Formats builds the formats table panel. Row order follows formats; a zero
// filesize or fps counts as missing.
func Formats(title string, formats []vidapi.FormatDescriptor) Panel {
	rows := make([]FormatRow, 0, len(formats))
	for _, f := range formats {
		row := FormatRow{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Size:       format.Unknown,
			FPS:        notAvailable,
			Note:       f.FormatNote,
		}
		if f.Filesize != nil && *f.Filesize != 0 {
			row.Size = format.Bytes(*f.Filesize)
		}
		if f.FPS != nil && *f.FPS != 0 {
			row.FPS = strconv.FormatFloat(*f.FPS, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return Panel{Kind: KindSuccess, Heading: HeadingFormats, Formats: &FormatsView{Title: title, Rows: rows}}
}

// Download builds the confirmation panel. savedAs is empty when the payload
// was streamed to a browser rather than written to disk.
func Download(res vidapi.DownloadResult, savedAs string) Panel {
	return Panel{
		Kind:    KindSuccess,
		Heading: HeadingDownload,
		Download: &DownloadView{
			Filename:    res.Filename,
			SavedAs:     savedAs,
			Size:        format.Bytes(int64(len(res.Data))),
			ContentType: res.ContentType,
		},
	}
}

// Error builds an error panel carrying the user-facing message of err.
func Error(err error) Panel {
	return Panel{Kind: KindError, Heading: HeadingError, Message: vidapi.Message(err)}
}

// Platforms builds the platforms view. Any error degrades to the placeholder.
func Platforms(platforms []string, err error) PlatformsView {
	if err != nil {
		return PlatformsView{Unavailable: true, Placeholder: PlatformsPlaceholder}
	}
	return PlatformsView{Platforms: platforms}
}

// truncate cuts s to limit characters and marks the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "..."
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package vidapi

// VideoQuery is built once per submit and never modified afterwards.
type VideoQuery struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	AudioOnly bool   `json:"audio_only"`
}

// VideoMetadata describes a single video as reported by the backend.
// Pointer fields are optional and nil when the backend omitted them.
type VideoMetadata struct {
	Title            string   `json:"title"`
	Uploader         string   `json:"uploader"`
	Duration         *float64 `json:"duration,omitempty"`
	ViewCount        *int64   `json:"view_count,omitempty"`
	UploadDate       *string  `json:"upload_date,omitempty"`
	Thumbnail        *string  `json:"thumbnail,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Platform         string   `json:"platform"`
	FormatsAvailable int      `json:"formats_available"`
	WebpageURL       *string  `json:"webpage_url,omitempty"`
}

// DurationSeconds returns the whole-second duration, or nil when unknown.
func (m VideoMetadata) DurationSeconds() *int64 {
	if m.Duration == nil {
		return nil
	}
	s := int64(*m.Duration)
	return &s
}

// FormatDescriptor is one downloadable encoding of a video.
type FormatDescriptor struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	Resolution string   `json:"resolution"`
	Filesize   *int64   `json:"filesize,omitempty"`
	FPS        *float64 `json:"fps,omitempty"`
	VCodec     string   `json:"vcodec,omitempty"`
	ACodec     string   `json:"acodec,omitempty"`
	FormatNote string   `json:"format_note"`
}

// FormatPreset is a named format selector offered next to the metadata.
type FormatPreset struct {
	Name        string `json:"name"`
	Selector    string `json:"selector"`
	Description string `json:"description"`
}

// Metadata is the result of FetchMetadata.
type Metadata struct {
	Video   VideoMetadata
	Presets []FormatPreset
}

// DownloadResult holds a fetched payload until it is handed to a saver.
type DownloadResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// HealthStatus is the backend's self-report.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Healthy reports whether the backend declared itself healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

type urlRequest struct {
	URL string `json:"url"`
}

type errorBody struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

type infoResponse struct {
	errorBody
	Metadata         *VideoMetadata `json:"metadata"`
	SupportedFormats []FormatPreset `json:"supported_formats"`
}

type formatsResponse struct {
	errorBody
	Title   string             `json:"title"`
	Formats []FormatDescriptor `json:"formats"`
}

type platformsResponse struct {
	errorBody
	Platforms []string `json:"platforms"`
	Total     int      `json:"total"`
}

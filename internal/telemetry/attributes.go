// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/idna"
)

// Attribute keys shared by backend-call spans.
const (
	OperationKey = "vidgrab.op"
	VideoHostKey = "vidgrab.video_host"
	FormatKey    = "vidgrab.format"
	AudioOnlyKey = "vidgrab.audio_only"
	ErrorTypeKey = "error.type"
)

// VideoHost returns the host of a user-supplied video URL in its lowercase
// ASCII form, so "YouTube.com" and "youtube.com" share one value. The full
// URL is never recorded.
func VideoHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	host := u.Hostname()
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return strings.ToLower(host)
}

// BackendCallAttributes describes one dispatcher call.
func BackendCallAttributes(op, videoURL string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(OperationKey, op)}
	if videoURL != "" {
		attrs = append(attrs, attribute.String(VideoHostKey, VideoHost(videoURL)))
	}
	return attrs
}

// DownloadAttributes adds the selector choice of a download call.
func DownloadAttributes(format string, audioOnly bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(FormatKey, format),
		attribute.Bool(AudioOnlyKey, audioOnly),
	}
}

// ErrorAttributes classifies a failed call.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String(ErrorTypeKey, errorType)}
}

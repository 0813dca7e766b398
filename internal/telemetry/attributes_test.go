// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestVideoHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "www.youtube.com"},
		{"https://user:pw@vimeo.com:8443/1", "vimeo.com"},
		{"https://WWW.YouTube.com/watch", "www.youtube.com"},
		{"https://bücher.example/v/1", "xn--bcher-kva.example"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := VideoHost(tt.in); got != tt.want {
			t.Errorf("VideoHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackendCallAttributes(t *testing.T) {
	attrs := BackendCallAttributes("info", "https://youtu.be/x")
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, OperationKey, "info")
	verifyAttribute(t, attrs, VideoHostKey, "youtu.be")

	attrs = BackendCallAttributes("platforms", "")
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute without URL, got %d", len(attrs))
	}
}

func TestDownloadAttributes(t *testing.T) {
	attrs := DownloadAttributes("bestaudio", true)
	verifyAttribute(t, attrs, FormatKey, "bestaudio")
	for _, a := range attrs {
		if string(a.Key) == AudioOnlyKey && !a.Value.AsBool() {
			t.Error("audio_only should be true")
		}
	}
}

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, want string) {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			if got := a.Value.AsString(); got != want {
				t.Errorf("attribute %s = %q, want %q", key, got, want)
			}
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"context"
	"sync/atomic"

	"github.com/ManuGH/vidgrab/internal/vidapi"
	"github.com/ManuGH/vidgrab/internal/view"
)

// Backend is what the web UI needs from the backend client.
type Backend interface {
	view.Dispatcher
	Health(ctx context.Context) (vidapi.HealthStatus, error)
}

// swappableBackend lets a config reload point existing sessions at a new
// backend without dropping them.
type swappableBackend struct {
	cur atomic.Pointer[Backend]
}

func newSwappableBackend(b Backend) *swappableBackend {
	s := &swappableBackend{}
	s.set(b)
	return s
}

func (s *swappableBackend) set(b Backend) {
	s.cur.Store(&b)
}

func (s *swappableBackend) get() Backend {
	return *s.cur.Load()
}

func (s *swappableBackend) FetchMetadata(ctx context.Context, url string) (vidapi.Metadata, error) {
	return s.get().FetchMetadata(ctx, url)
}

func (s *swappableBackend) FetchFormats(ctx context.Context, url string) (string, []vidapi.FormatDescriptor, error) {
	return s.get().FetchFormats(ctx, url)
}

func (s *swappableBackend) StartDownload(ctx context.Context, q vidapi.VideoQuery) (vidapi.DownloadResult, error) {
	return s.get().StartDownload(ctx, q)
}

func (s *swappableBackend) FetchSupportedPlatforms(ctx context.Context) ([]string, error) {
	return s.get().FetchSupportedPlatforms(ctx)
}

func (s *swappableBackend) Health(ctx context.Context) (vidapi.HealthStatus, error) {
	return s.get().Health(ctx)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"context"
	"errors"

	"github.com/ManuGH/vidgrab/internal/vidapi"
)

var errNoBrowser = errors.New("no browser response to hand the download to")

// handoff carries one download from the controller to the HTTP response
// that requested it. It lives only as long as that request.
type handoff struct {
	res vidapi.DownloadResult
	ok  bool
}

type handoffKey struct{}

func withHandoff(ctx context.Context, h *handoff) context.Context {
	return context.WithValue(ctx, handoffKey{}, h)
}

// browserSaver is the web UI's save mechanism: it passes the payload to the
// waiting response instead of writing it anywhere. The saved path is empty.
type browserSaver struct{}

func (browserSaver) Save(ctx context.Context, res vidapi.DownloadResult) (string, error) {
	h, _ := ctx.Value(handoffKey{}).(*handoff)
	if h == nil {
		return "", errNoBrowser
	}
	h.res, h.ok = res, true
	return "", nil
}

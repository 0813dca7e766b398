// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package view holds the UI state: the input form and the controller that
// runs backend operations and publishes their results to a Display.
//
// Only the latest operation may write to the results area. Starting a new one
// cancels the previous call and drops its result if it still arrives.
package view

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/metrics"
	"github.com/ManuGH/vidgrab/internal/render"
	"github.com/ManuGH/vidgrab/internal/vidapi"
)

// Dispatcher issues backend requests. *vidapi.Client implements it.
type Dispatcher interface {
	FetchMetadata(ctx context.Context, url string) (vidapi.Metadata, error)
	FetchFormats(ctx context.Context, url string) (string, []vidapi.FormatDescriptor, error)
	StartDownload(ctx context.Context, q vidapi.VideoQuery) (vidapi.DownloadResult, error)
	FetchSupportedPlatforms(ctx context.Context) ([]string, error)
}

// Display receives everything the controller wants shown. Calls are
// serialized by the controller.
type Display interface {
	ShowLoading()
	Show(p render.Panel)
	ShowPlatforms(v render.PlatformsView)
}

// Saver persists a downloaded payload and returns where it went.
type Saver interface {
	Save(ctx context.Context, res vidapi.DownloadResult) (string, error)
}

// slot tracks the operation currently allowed to write one display area.
type slot struct {
	token  string
	cancel context.CancelFunc
}

// Controller drives the form and the display.
type Controller struct {
	api     Dispatcher
	display Display
	saver   Saver
	logger  zerolog.Logger

	mu        sync.Mutex
	form      FormState
	results   slot
	platforms slot
}

// NewController wires a controller. saver may be nil when downloads are not
// persisted by the caller; the download panel then has no saved path.
func NewController(api Dispatcher, display Display, saver Saver) *Controller {
	return &Controller{
		api:     api,
		display: display,
		saver:   saver,
		logger:  vlog.WithComponent("view"),
		form:    NewFormState(),
	}
}

// Form returns a copy of the form state.
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetURL updates the URL field.
func (c *Controller) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.URL = url
}

// SetFormat updates the format selector; ignored while audio-only is on.
func (c *Controller) SetFormat(format string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetFormat(format)
}

// ToggleAudioOnly switches audio-only mode and returns the new form state.
func (c *Controller) ToggleAudioOnly(on bool) FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetAudioOnly(on)
	return c.form
}

// GetInfo fetches metadata for the form URL and shows it. The returned bool
// is false when a newer operation superseded this one and nothing was shown.
func (c *Controller) GetInfo(ctx context.Context) (render.Panel, bool) {
	q, ok := c.submit()
	if !ok {
		return c.showInvalid(ctx, vidapi.OpInfo)
	}
	ctx, token := c.begin(ctx, &c.results)
	md, err := c.api.FetchMetadata(ctx, q.URL)
	p := render.Error(err)
	if err == nil {
		p = render.Info(md.Video)
	}
	return p, c.publish(ctx, vidapi.OpInfo, token, p)
}

// GetFormats fetches the format list for the form URL and shows it.
func (c *Controller) GetFormats(ctx context.Context) (render.Panel, bool) {
	q, ok := c.submit()
	if !ok {
		return c.showInvalid(ctx, vidapi.OpFormats)
	}
	ctx, token := c.begin(ctx, &c.results)
	title, formats, err := c.api.FetchFormats(ctx, q.URL)
	p := render.Error(err)
	if err == nil {
		p = render.Formats(title, formats)
	}
	return p, c.publish(ctx, vidapi.OpFormats, token, p)
}

// Download fetches the payload for the form and hands it to the saver.
func (c *Controller) Download(ctx context.Context) (render.Panel, bool) {
	q, ok := c.submit()
	if !ok {
		return c.showInvalid(ctx, vidapi.OpDownload)
	}
	ctx, token := c.begin(ctx, &c.results)
	res, err := c.api.StartDownload(ctx, q)
	if err != nil {
		p := render.Error(err)
		return p, c.publish(ctx, vidapi.OpDownload, token, p)
	}

	var savedAs string
	if c.saver != nil && c.isCurrent(&c.results, token) {
		savedAs, err = c.saver.Save(ctx, res)
		if err != nil {
			p := render.Error(err)
			return p, c.publish(ctx, vidapi.OpDownload, token, p)
		}
	}
	p := render.Download(res, savedAs)
	return p, c.publish(ctx, vidapi.OpDownload, token, p)
}

// LoadPlatforms fetches the supported platforms list. Failures degrade to
// the placeholder and are never reported as errors.
func (c *Controller) LoadPlatforms(ctx context.Context) (render.PlatformsView, bool) {
	ctx, token := c.beginQuiet(ctx, &c.platforms)
	platforms, err := c.api.FetchSupportedPlatforms(ctx)
	v := render.Platforms(platforms, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.platforms.token != token {
		metrics.IncStaleResult(vidapi.OpPlatforms)
		return v, false
	}
	c.release(&c.platforms)
	if v.Unavailable {
		metrics.IncPlatformsUnavailable()
		l := vlog.WithContext(ctx, c.logger)
		l.Warn().Err(err).Msg("supported platforms unavailable")
	}
	c.display.ShowPlatforms(v)
	return v, true
}

// submit snapshots the form. ok is false when the URL is empty.
func (c *Controller) submit() (vidapi.VideoQuery, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.form.Query()
	return q, strings.TrimSpace(q.URL) != ""
}

// showInvalid reports an empty URL without a loading state or a request. It
// still supersedes any operation in flight.
func (c *Controller) showInvalid(ctx context.Context, op string) (render.Panel, bool) {
	p := render.Error(&vidapi.ValidationError{Op: op, Field: "url", Message: vidapi.MsgMissingURL})
	c.mu.Lock()
	defer c.mu.Unlock()
	c.takeSlot(ctx, &c.results)
	c.release(&c.results)
	c.display.Show(p)
	return p, true
}

// begin claims slot for a new operation, cancelling the previous holder, and
// shows the loading state.
func (c *Controller) begin(ctx context.Context, s *slot) (context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, token := c.takeSlot(ctx, s)
	c.display.ShowLoading()
	return ctx, token
}

func (c *Controller) beginQuiet(ctx context.Context, s *slot) (context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.takeSlot(ctx, s)
}

// takeSlot must be called with mu held.
func (c *Controller) takeSlot(parent context.Context, s *slot) (context.Context, string) {
	if parent == nil {
		parent = context.Background()
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	token := uuid.NewString()
	s.token, s.cancel = token, cancel
	return vlog.ContextWithToken(ctx, token), token
}

// release must be called with mu held.
func (c *Controller) release(s *slot) {
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
}

func (c *Controller) isCurrent(s *slot, token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return s.token == token
}

// publish shows p if token still owns the results area.
func (c *Controller) publish(ctx context.Context, op, token string, p render.Panel) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results.token != token {
		metrics.IncStaleResult(op)
		l := vlog.WithContext(ctx, c.logger)
		l.Debug().
			Str(vlog.FieldOperation, op).
			Msg("discarding superseded result")
		return false
	}
	c.release(&c.results)
	c.display.Show(p)
	return true
}

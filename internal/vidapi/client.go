// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package vidapi is the typed client for the video download backend.
//
// Every call issues exactly one HTTP request. There is no retry, no cache and
// no de-duplication: two identical calls produce two requests.
package vidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	vlog "github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/metrics"
	"github.com/ManuGH/vidgrab/internal/platform/httpx"
	"github.com/ManuGH/vidgrab/internal/telemetry"
)

// Backend paths.
const (
	PathInfo      = "/api/info"
	PathFormats   = "/api/formats"
	PathDownload  = "/api/download"
	PathPlatforms = "/api/supported-platforms"
	PathHealth    = "/api/health"
)

// HeaderRequestID carries the correlation id of each backend call.
const HeaderRequestID = "X-Request-ID"

const maxErrorBodyBytes = 64 << 10

// Client talks to the backend API rooted at a base URL.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default hardened client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for base, e.g. "http://localhost:5000". A trailing
// "/api" is tolerated.
func New(base string, opts ...Option) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	base = strings.TrimSuffix(base, "/api")
	c := &Client{
		base: base,
		http: httpx.NewClient(httpx.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.base
}

// FetchMetadata requests metadata and format presets for a video URL.
func (c *Client) FetchMetadata(ctx context.Context, videoURL string) (Metadata, error) {
	videoURL = strings.TrimSpace(videoURL)
	var out Metadata
	err := c.call(ctx, OpInfo, videoURL, func(ctx context.Context) error {
		var p infoResponse
		status, err := c.doJSON(ctx, OpInfo, http.MethodPost, PathInfo, urlRequest{URL: videoURL}, &p)
		if err != nil {
			return err
		}
		if p.Metadata == nil {
			return malformed(OpInfo, status, errors.New("missing metadata"))
		}
		out = Metadata{Video: *p.Metadata, Presets: p.SupportedFormats}
		return nil
	})
	return out, err
}

// FetchFormats lists the formats available for a video URL, in backend order.
func (c *Client) FetchFormats(ctx context.Context, videoURL string) (string, []FormatDescriptor, error) {
	videoURL = strings.TrimSpace(videoURL)
	var (
		title   string
		formats []FormatDescriptor
	)
	err := c.call(ctx, OpFormats, videoURL, func(ctx context.Context) error {
		var p formatsResponse
		status, err := c.doJSON(ctx, OpFormats, http.MethodPost, PathFormats, urlRequest{URL: videoURL}, &p)
		if err != nil {
			return err
		}
		if p.Formats == nil {
			return malformed(OpFormats, status, errors.New("missing formats"))
		}
		title, formats = p.Title, p.Formats
		return nil
	})
	return title, formats, err
}

// StartDownload asks the backend to fetch the video and returns the payload.
func (c *Client) StartDownload(ctx context.Context, q VideoQuery) (DownloadResult, error) {
	q.URL = strings.TrimSpace(q.URL)
	var out DownloadResult
	err := c.call(ctx, OpDownload, q.URL, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(telemetry.DownloadAttributes(q.Format, q.AudioOnly)...)

		res, err := c.send(ctx, OpDownload, http.MethodPost, PathDownload, q)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if err := checkStatus(OpDownload, res); err != nil {
			return err
		}

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return &NetworkError{Op: OpDownload, Err: err}
		}
		out = DownloadResult{
			Filename:    FilenameFromDisposition(res.Header.Get("Content-Disposition")),
			ContentType: res.Header.Get("Content-Type"),
			Data:        data,
		}
		metrics.AddDownloadBytes(len(data))
		zerolog.Ctx(ctx).Debug().
			Str(vlog.FieldFilename, out.Filename).
			Int(vlog.FieldBytes, len(data)).
			Msg("download payload received")
		return nil
	})
	return out, err
}

// FetchSupportedPlatforms lists the platforms the backend can extract from.
// A response with success=false is reported as an error.
func (c *Client) FetchSupportedPlatforms(ctx context.Context) ([]string, error) {
	var platforms []string
	err := c.call(ctx, OpPlatforms, "", func(ctx context.Context) error {
		var p platformsResponse
		status, err := c.doJSON(ctx, OpPlatforms, http.MethodGet, PathPlatforms, nil, &p)
		if err != nil {
			return err
		}
		if p.Platforms == nil {
			return malformed(OpPlatforms, status, errors.New("missing platforms"))
		}
		platforms = p.Platforms
		return nil
	})
	return platforms, err
}

// Health queries the backend health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.call(ctx, OpHealth, "", func(ctx context.Context) error {
		var h HealthStatus
		status, err := c.doJSON(ctx, OpHealth, http.MethodGet, PathHealth, nil, &h)
		if err != nil {
			return err
		}
		if h.Status == "" {
			return malformed(OpHealth, status, errors.New("missing status"))
		}
		out = h
		return nil
	})
	return out, err
}

// call validates the URL (when the operation takes one), then runs fn inside
// a span with a request id, and records the outcome.
func (c *Client) call(ctx context.Context, op, videoURL string, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	takesURL := op == OpInfo || op == OpFormats || op == OpDownload
	if takesURL && videoURL == "" {
		err := &ValidationError{Op: op, Field: "url", Message: MsgMissingURL}
		metrics.ObserveBackendRequest(op, outcomeOf(err), 0)
		return err
	}

	rid := vlog.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.NewString()
		ctx = vlog.ContextWithRequestID(ctx, rid)
	}

	ctx, span := telemetry.Tracer("vidgrab/vidapi").Start(ctx, "vidapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.BackendCallAttributes(op, videoURL)...))
	defer span.End()

	logger := vlog.WithComponentFromContext(ctx, "vidapi").With().
		Str(vlog.FieldOperation, op).
		Logger()
	if takesURL {
		logger = logger.With().Str(vlog.FieldVideoHost, telemetry.VideoHost(videoURL)).Logger()
	}
	ctx = logger.WithContext(ctx)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	metrics.ObserveBackendRequest(op, outcome, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		span.SetAttributes(telemetry.ErrorAttributes(outcome)...)
		logger.Warn().
			Err(err).
			Str(vlog.FieldEvent, "vidapi.request").
			Int64(vlog.FieldDuration, elapsed.Milliseconds()).
			Msg("backend call failed")
		return err
	}
	logger.Info().
		Str(vlog.FieldEvent, "vidapi.request").
		Int64(vlog.FieldDuration, elapsed.Milliseconds()).
		Msg("backend call completed")
	return nil
}

// send issues one request. body, when non-nil, is encoded as JSON.
func (c *Client) send(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("vidapi: %s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, vlog.RequestIDFromContext(ctx))

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	zerolog.Ctx(ctx).Debug().
		Str(vlog.FieldEndpoint, path).
		Int(vlog.FieldStatus, res.StatusCode).
		Msg("backend responded")
	return res, nil
}

// doJSON sends a request and decodes a 2xx JSON body into out. It returns the
// HTTP status so callers can report schema violations against it.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) (int, error) {
	res, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if err := checkStatus(op, res); err != nil {
		return res.StatusCode, err
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, &NetworkError{Op: op, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return res.StatusCode, malformed(op, res.StatusCode, err)
	}
	if eb, ok := out.(interface{ failure() (string, bool) }); ok {
		if msg, failed := eb.failure(); failed {
			if msg == "" {
				msg = fallbackMessage(op)
			}
			return res.StatusCode, &RemoteError{Op: op, Status: res.StatusCode, Message: msg}
		}
	}
	return res.StatusCode, nil
}

// failure reports an explicit success=false in an otherwise 2xx body.
func (b *errorBody) failure() (string, bool) {
	if b.Success != nil && !*b.Success {
		return b.Error, true
	}
	return "", false
}

// checkStatus maps a non-2xx response to a RemoteError. The message is the
// body's "error" member when present, otherwise the operation's fallback.
func checkStatus(op string, res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	msg := fallbackMessage(op)
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
		msg = eb.Error
	}
	return &RemoteError{Op: op, Status: res.StatusCode, Message: msg}
}

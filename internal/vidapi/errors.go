// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package vidapi

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/ManuGH/vidgrab/internal/metrics"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrValidation        = errors.New("vidapi: invalid input")
	ErrRemote            = errors.New("vidapi: backend rejected request")
	ErrNetwork           = errors.New("vidapi: backend unreachable")
	ErrMalformedResponse = errors.New("vidapi: malformed response body")
)

// Operation names, also used as metric and span labels.
const (
	OpInfo      = "info"
	OpFormats   = "formats"
	OpDownload  = "download"
	OpPlatforms = "platforms"
	OpHealth    = "health"
)

var fallbackMessages = map[string]string{
	OpInfo:      "Failed to get video info",
	OpFormats:   "Failed to get formats",
	OpDownload:  "Download failed",
	OpPlatforms: "Failed to get supported platforms",
	OpHealth:    "Health check failed",
}

// MsgMissingURL is shown when the URL field is empty.
const MsgMissingURL = "Please enter a video URL"

// ValidationError is returned before any request is sent.
type ValidationError struct {
	Op      string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vidapi: %s: %s: %s", e.Op, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RemoteError is a non-2xx response, or a 2xx body that did not match the
// expected schema (then Err wraps ErrMalformedResponse).
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("vidapi: %s", e.Op)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.Err}
}

// NetworkError is a transport failure: refused connection, timeout,
// cancellation, or an aborted body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("vidapi: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		var ue *url.Error
		if errors.As(ne.Err, &ue) {
			return ue.Err.Error()
		}
		return ne.Err.Error()
	}
	return err.Error()
}

func fallbackMessage(op string) string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

func malformed(op string, status int, cause error) *RemoteError {
	return &RemoteError{
		Op:      op,
		Status:  status,
		Message: fallbackMessage(op),
		Err:     fmt.Errorf("%w: %v", ErrMalformedResponse, cause),
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrMalformedResponse):
		return metrics.OutcomeMalformed
	case errors.Is(err, ErrRemote):
		return metrics.OutcomeRemote
	default:
		return metrics.OutcomeNetwork
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldToken     = "token"
	FieldEvent     = "event"

	// Backend call fields
	FieldOperation = "op"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldVideoHost = "video_host"
	FieldFilename  = "filename"
	FieldBytes     = "bytes"

	// HTTP ingress fields
	FieldMethod = "method"
	FieldPath   = "path"
	FieldRemote = "remote_addr"

	// Config fields
	FieldConfigPath = "config_path"
	FieldBaseURL    = "base_url"
)

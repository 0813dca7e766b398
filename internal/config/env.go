// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	vlog "github.com/ManuGH/vidgrab/internal/log"
)

// LookupFunc matches os.LookupEnv. Tests substitute a map-backed lookup.
type LookupFunc func(key string) (string, bool)

// env reads typed values from a lookup and logs where each value came from.
type env struct {
	lookup LookupFunc
	logger zerolog.Logger
}

func newEnv(lookup LookupFunc) env {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return env{lookup: lookup, logger: vlog.WithComponent("config")}
}

// raw returns the trimmed value and whether it is set and non-empty.
func (e env) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return newEnv(nil).str(key, defaultValue)
}

// ParseDuration reads a Go duration ("5s") or returns default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return newEnv(nil).duration(key, defaultValue)
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return newEnv(nil).boolean(key, defaultValue)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return newEnv(nil).float(key, defaultValue)
}

func (e env) str(key, defaultValue string) string {
	v, ok := e.raw(key)
	if !ok {
		e.useDefault(key)
		return defaultValue
	}
	e.logger.Debug().
		Str("key", key).
		Str("value", v).
		Str("source", "environment").
		Msg("using environment variable")
	return v
}

func (e env) duration(key string, defaultValue time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		e.useDefault(key)
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.invalid(key, v, "duration")
		return defaultValue
	}
	e.fromEnv(key)
	return d
}

func (e env) boolean(key string, defaultValue bool) bool {
	v, ok := e.raw(key)
	if !ok {
		e.useDefault(key)
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		e.fromEnv(key)
		return true
	case "false", "0", "no":
		e.fromEnv(key)
		return false
	default:
		e.invalid(key, v, "boolean")
		return defaultValue
	}
}

func (e env) float(key string, defaultValue float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		e.useDefault(key)
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.invalid(key, v, "float")
		return defaultValue
	}
	e.fromEnv(key)
	return f
}

func (e env) useDefault(key string) {
	e.logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
}

func (e env) fromEnv(key string) {
	e.logger.Debug().Str("key", key).Str("source", "environment").Msg("using environment variable")
}

func (e env) invalid(key, value, kind string) {
	e.logger.Warn().
		Str("key", key).
		Str("value", value).
		Msgf("invalid %s in environment variable, using default", kind)
}

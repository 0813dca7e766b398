// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads vidgrab configuration.
//
// Precedence is ENV > file > defaults. The YAML file is parsed strictly: an
// unknown key fails the load instead of being silently ignored.
package config

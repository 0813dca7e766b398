// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
	env        env
}

// NewLoader creates a loader reading configPath (may be empty) and the
// process environment.
func NewLoader(configPath, version string) *Loader {
	return NewLoaderWithEnv(configPath, version, nil)
}

// NewLoaderWithEnv is NewLoader with a custom environment lookup.
func NewLoaderWithEnv(configPath, version string, lookup LookupFunc) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		env:        newEnv(lookup),
	}
}

// Path returns the config file path, or "" for ENV-only configuration.
func (l *Loader) Path() string {
	return l.configPath
}

// Load loads configuration with precedence: ENV > File > Defaults, then
// validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)

	if abs, err := filepath.Abs(cfg.Download.Dir); err == nil {
		cfg.Download.Dir = abs
	}
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		API: APIConfig{
			BaseURL: DefaultAPIBase,
			Timeout: DefaultAPITimeout,
		},
		Server: ServerConfig{
			Listen:          DefaultListen,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Download: DownloadConfig{Dir: DefaultDownloadDir},
		Log:      LogConfig{Level: DefaultLogLevel},
		Tracing: TracingConfig{
			Exporter:     DefaultExporter,
			Endpoint:     DefaultTracingEndpoint,
			SamplingRate: DefaultSamplingRate,
		},
	}
}

// LoadFileConfig parses a YAML config file without applying defaults or env.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if a := src.API; a != nil {
		if a.BaseURL != "" {
			dst.API.BaseURL = a.BaseURL
		}
		if err := setDuration(&dst.API.Timeout, "api.timeout", a.Timeout); err != nil {
			return err
		}
		if a.UserAgent != "" {
			dst.API.UserAgent = a.UserAgent
		}
	}
	if s := src.Server; s != nil {
		if s.Listen != "" {
			dst.Server.Listen = s.Listen
		}
		if err := setDuration(&dst.Server.ShutdownTimeout, "server.shutdown_timeout", s.ShutdownTimeout); err != nil {
			return err
		}
		if s.SecureCookies != nil {
			dst.Server.SecureCookies = *s.SecureCookies
		}
	}
	if d := src.Download; d != nil {
		if d.Dir != "" {
			dst.Download.Dir = os.ExpandEnv(d.Dir)
		}
		if d.Overwrite != nil {
			dst.Download.Overwrite = *d.Overwrite
		}
	}
	if lg := src.Log; lg != nil && lg.Level != "" {
		dst.Log.Level = lg.Level
	}
	if t := src.Tracing; t != nil {
		if t.Enabled != nil {
			dst.Tracing.Enabled = *t.Enabled
		}
		if t.Exporter != "" {
			dst.Tracing.Exporter = t.Exporter
		}
		if t.Endpoint != "" {
			dst.Tracing.Endpoint = t.Endpoint
		}
		if t.SamplingRate != nil {
			dst.Tracing.SamplingRate = *t.SamplingRate
		}
	}
	return nil
}

func setDuration(dst *time.Duration, field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	e := l.env
	cfg.API.BaseURL = e.str(EnvAPIBase, cfg.API.BaseURL)
	cfg.API.Timeout = e.duration(EnvAPITimeout, cfg.API.Timeout)
	cfg.API.UserAgent = e.str(EnvUserAgent, cfg.API.UserAgent)
	cfg.Server.Listen = e.str(EnvListen, cfg.Server.Listen)
	cfg.Server.ShutdownTimeout = e.duration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)
	cfg.Server.SecureCookies = e.boolean(EnvSecureCookies, cfg.Server.SecureCookies)
	cfg.Download.Dir = e.str(EnvDownloadDir, cfg.Download.Dir)
	cfg.Download.Overwrite = e.boolean(EnvOverwrite, cfg.Download.Overwrite)
	cfg.Log.Level = strings.ToLower(e.str(EnvLogLevel, cfg.Log.Level))
	cfg.Tracing.Enabled = e.boolean(EnvTracingEnabled, cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = e.str(EnvTracingExporter, cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = e.str(EnvTracingEndpoint, cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = e.float(EnvTracingSampling, cfg.Tracing.SamplingRate)
}

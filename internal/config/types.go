// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"time"
)

// Environment variables read by the Loader.
const (
	EnvAPIBase         = "VIDGRAB_API_BASE"
	EnvAPITimeout      = "VIDGRAB_API_TIMEOUT"
	EnvUserAgent       = "VIDGRAB_USER_AGENT"
	EnvListen          = "VIDGRAB_LISTEN"
	EnvShutdownTimeout = "VIDGRAB_SHUTDOWN_TIMEOUT"
	EnvSecureCookies   = "VIDGRAB_SECURE_COOKIES"
	EnvDownloadDir     = "VIDGRAB_DOWNLOAD_DIR"
	EnvOverwrite       = "VIDGRAB_DOWNLOAD_OVERWRITE"
	EnvLogLevel        = "VIDGRAB_LOG_LEVEL"
	EnvTracingEnabled  = "VIDGRAB_TRACING_ENABLED"
	EnvTracingExporter = "VIDGRAB_TRACING_EXPORTER"
	EnvTracingEndpoint = "VIDGRAB_TRACING_ENDPOINT"
	EnvTracingSampling = "VIDGRAB_TRACING_SAMPLING_RATE"
)

// Defaults.
const (
	DefaultAPIBase         = "http://localhost:5000"
	DefaultAPITimeout      = 5 * time.Minute
	DefaultListen          = "127.0.0.1:8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDownloadDir     = "downloads"
	DefaultLogLevel        = "info"
	DefaultExporter        = "grpc"
	DefaultTracingEndpoint = "localhost:4317"
	DefaultSamplingRate    = 1.0
)

// AppConfig is the effective configuration after defaults, file and env.
type AppConfig struct {
	Version  string
	API      APIConfig
	Server   ServerConfig
	Download DownloadConfig
	Log      LogConfig
	Tracing  TracingConfig
}

// APIConfig points at the video backend.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// ServerConfig configures the web UI listener.
type ServerConfig struct {
	Listen          string
	ShutdownTimeout time.Duration
	// SecureCookies marks the session cookie Secure; set it behind TLS.
	SecureCookies   bool
}

// DownloadConfig controls where payloads are written.
type DownloadConfig struct {
	Dir       string
	Overwrite bool
}

type LogConfig struct {
	Level string
}

// TracingConfig mirrors telemetry.Config.
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// String renders the configuration for logs and `config validate`.
func (c AppConfig) String() string {
	return fmt.Sprintf(
		"api.base_url=%s api.timeout=%s server.listen=%s server.secure_cookies=%t download.dir=%s download.overwrite=%t log.level=%s tracing.enabled=%t tracing.exporter=%s",
		c.API.BaseURL, c.API.Timeout, c.Server.Listen, c.Server.SecureCookies, c.Download.Dir, c.Download.Overwrite,
		c.Log.Level, c.Tracing.Enabled, c.Tracing.Exporter,
	)
}

// FileConfig is the YAML file schema. Pointers distinguish "unset" from the
// zero value so a file can turn a default off.
type FileConfig struct {
	API      *FileAPI      `yaml:"api,omitempty"`
	Server   *FileServer   `yaml:"server,omitempty"`
	Download *FileDownload `yaml:"download,omitempty"`
	Log      *FileLog      `yaml:"log,omitempty"`
	Tracing  *FileTracing  `yaml:"tracing,omitempty"`
}

type FileAPI struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
}

type FileServer struct {
	Listen          string `yaml:"listen,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
	SecureCookies   *bool  `yaml:"secure_cookies,omitempty"`
}

type FileDownload struct {
	Dir       string `yaml:"dir,omitempty"`
	Overwrite *bool  `yaml:"overwrite,omitempty"`
}

type FileLog struct {
	Level string `yaml:"level,omitempty"`
}

type FileTracing struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"sampling_rate,omitempty"`
}

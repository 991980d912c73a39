// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package config loads StreamGauge configuration from built-in defaults, an
// optional YAML file, and environment variables (highest priority).
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Security SecurityConfig `koanf:"security"`
	NATS     NATSConfig     `koanf:"nats"`
	Analyzer AnalyzerConfig `koanf:"analyzer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// ListCacheTTL bounds how long a report listing is served from memory.
	// Zero disables the cache.
	ListCacheTTL    time.Duration `koanf:"list_cache_ttl"`
}

// DatabaseConfig holds DuckDB settings for the result store.
type DatabaseConfig struct {
	Path               string        `koanf:"path"`
	MaxMemory          string        `koanf:"max_memory"`
	Threads            int           `koanf:"threads"` // 0 = runtime.NumCPU()
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// LoggingConfig mirrors logging.Config minus the writer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds request limiting and origin settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// NATSConfig controls the optional cross-instance relay of live results.
// Only honored in binaries built with -tags nats.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	Subject        string        `koanf:"subject"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// AnalyzerConfig tunes the playback quality analyzer used by the probe.
type AnalyzerConfig struct {
	Window             time.Duration `koanf:"window"`
	FallbackResolution string        `koanf:"fallback_resolution"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package eventprocessor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/streamgauge/internal/config"
)

// DefaultTopic is the subject new_result events are relayed on.
const DefaultTopic = "streamgauge.results.new"

// Config holds relay settings.
type Config struct {
	// URL of an external server. Ignored when EmbeddedServer is set.
	URL string

	// EmbeddedServer starts an in-process server on Host:Port. Port -1
	// picks a random free port.
	EmbeddedServer bool
	Host           string
	Port           int

	Topic         string
	MaxReconnects int // -1 = forever
	ReconnectWait time.Duration

	// InstanceID tags published messages. Empty means a random UUID.
	InstanceID string
}

// ConfigFromApp maps the application NATS settings.
func ConfigFromApp(cfg config.NATSConfig) Config {
	return Config{
		URL:            cfg.URL,
		EmbeddedServer: cfg.EmbeddedServer,
		Host:           cfg.Host,
		Port:           cfg.Port,
		Topic:          cfg.Subject,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
	}
}

// withDefaults fills empty fields.
func (c Config) withDefaults() Config {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = 2 * time.Second
	}
	if c.InstanceID == "" {
		c.InstanceID = uuid.NewString()
	}
	return c
}

// Validate checks the settings after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if !c.EmbeddedServer && strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: URL is required without an embedded server", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Topic, " *>") {
		return fmt.Errorf("%w: topic must be a literal subject, got %q", ErrInvalidConfig, c.Topic)
	}
	if c.EmbeddedServer && (c.Port < -1 || c.Port > 65535) {
		return fmt.Errorf("%w: port out of range: %d", ErrInvalidConfig, c.Port)
	}
	return nil
}

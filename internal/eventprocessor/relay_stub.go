// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/tomtom215/streamgauge/internal/models"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

// Relay is a stub when NATS dependencies are not compiled in.
type Relay struct{}

// NewRelay returns ErrNATSNotEnabled. Build with -tags nats for the relay.
func NewRelay(cfg Config, hub *ws.Hub, logger any) (*Relay, error) {
	return nil, ErrNATSNotEnabled
}

// Start returns ErrNATSNotEnabled.
func (r *Relay) Start(ctx context.Context) error {
	return ErrNATSNotEnabled
}

// Shutdown is a no-op.
func (r *Relay) Shutdown(ctx context.Context) {}

// IsRunning always returns false.
func (r *Relay) IsRunning() bool {
	return false
}

// BroadcastNewResult is a no-op.
func (r *Relay) BroadcastNewResult(report *models.QualityReport) {}

// InstanceID returns an empty string.
func (r *Relay) InstanceID() string {
	return ""
}

// URL returns an empty string.
func (r *Relay) URL() string {
	return ""
}

// Close is a no-op.
func (r *Relay) Close(ctx context.Context) {}

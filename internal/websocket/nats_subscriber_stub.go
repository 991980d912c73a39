// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build !nats

package websocket

import (
	"context"
	"fmt"
)

// NATSMessageHandler is a source of relayed messages.
type NATSMessageHandler interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}

// NATSSubscriber is a stub for builds without -tags nats.
type NATSSubscriber struct{}

// NewNATSSubscriber returns nil without -tags nats.
func NewNATSSubscriber(_ *Hub, _ NATSMessageHandler, _ string) *NATSSubscriber {
	return nil
}

// Start always fails without -tags nats.
func (s *NATSSubscriber) Start(_ context.Context) error {
	return fmt.Errorf("NATS support not enabled (build with -tags nats)")
}

// Stop is a no-op.
func (s *NATSSubscriber) Stop() {}

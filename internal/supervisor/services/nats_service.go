// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package services

import (
	"context"
	"fmt"
	"time"
)

// RelayRunner is the Start/Shutdown lifecycle of the NATS relay
// components assembled in cmd/server.
type RelayRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// NATSRelayService supervises the cross-instance relay of live results.
// A failed Start is returned so suture retries with backoff; ingestion and
// the local hub keep working meanwhile.
type NATSRelayService struct {
	relay           RelayRunner
	shutdownTimeout time.Duration
	name            string
}

// NewNATSRelayService wraps relay. Non-positive shutdownTimeout means 10s.
func NewNATSRelayService(relay RelayRunner, shutdownTimeout time.Duration) *NATSRelayService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSRelayService{
		relay:           relay,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-relay",
	}
}

// Serve starts the relay, waits for cancellation and shuts it down.
func (s *NATSRelayService) Serve(ctx context.Context) error {
	if err := s.relay.Start(ctx); err != nil {
		return fmt.Errorf("NATS relay start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.relay.Shutdown(shutdownCtx)

	return ctx.Err()
}

func (s *NATSRelayService) String() string {
	return s.name
}

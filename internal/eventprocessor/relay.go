// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/models"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

// Relay joins this instance to the cross-instance live channel. Register it
// as an ingest broadcaster and run Start/Shutdown under supervision.
type Relay struct {
	cfg        Config
	hub        *ws.Hub
	server     *EmbeddedServer
	publisher  *Publisher
	subscriber *Subscriber

	mu     sync.Mutex
	bridge *ws.NATSSubscriber
}

// NewRelay builds the relay components. With cfg.EmbeddedServer an
// in-process server is started first and both connections use it.
func NewRelay(cfg Config, hub *ws.Hub, logger watermill.LoggerAdapter) (*Relay, error) {
	if hub == nil {
		return nil, errors.New("nats relay: hub is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}

	r := &Relay{cfg: cfg, hub: hub}

	if cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(cfg.Host, cfg.Port)
		if err != nil {
			return nil, err
		}
		r.server = srv
		r.cfg.URL = srv.ClientURL()
		logging.Info().Str("url", r.cfg.URL).Msg("Embedded NATS server started")
	}

	pub, err := NewPublisher(r.cfg, logger)
	if err != nil {
		r.Close(context.Background())
		return nil, err
	}
	r.publisher = pub

	sub, err := NewSubscriber(r.cfg, logger)
	if err != nil {
		r.Close(context.Background())
		return nil, err
	}
	r.subscriber = sub

	logging.Info().
		Str("url", r.cfg.URL).
		Str("topic", r.cfg.Topic).
		Str("instance_id", r.cfg.InstanceID).
		Msg("NATS relay initialized")
	return r, nil
}

// Start begins relaying remote results into the hub. Calling Start while
// running is a no-op.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bridge != nil {
		return nil
	}

	bridge := ws.NewNATSSubscriber(r.hub, r.subscriber, r.cfg.Topic)
	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("start NATS bridge: %w", err)
	}
	r.bridge = bridge
	return nil
}

// Shutdown stops relaying into the hub. Connections stay open so the
// relay can be started again; Close releases them.
func (r *Relay) Shutdown(_ context.Context) {
	r.mu.Lock()
	bridge := r.bridge
	r.bridge = nil
	r.mu.Unlock()

	if bridge != nil {
		bridge.Stop()
	}
}

// IsRunning reports whether remote results are being relayed.
func (r *Relay) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bridge != nil
}

// BroadcastNewResult publishes a locally stored report to other instances.
func (r *Relay) BroadcastNewResult(report *models.QualityReport) {
	r.publisher.BroadcastNewResult(report)
}

// InstanceID identifies this instance on the relay.
func (r *Relay) InstanceID() string {
	return r.cfg.InstanceID
}

// URL is the server the relay is connected to.
func (r *Relay) URL() string {
	return r.cfg.URL
}

// Close stops relaying and releases connections and the embedded server.
func (r *Relay) Close(ctx context.Context) {
	r.Shutdown(ctx)

	if r.subscriber != nil {
		if err := r.subscriber.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS subscriber")
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS publisher")
		}
	}
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error shutting down embedded NATS server")
		}
	}
}

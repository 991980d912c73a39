// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package eventprocessor

import (
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/metrics"
	"github.com/tomtom215/streamgauge/internal/models"
)

// Publisher sends accepted reports to other instances. It satisfies
// ingest.Broadcaster, so it can be registered next to the local hub.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[any]
	topic          string
	origin         string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher connects a core NATS publisher. The connection is retried
// in the background, so a missing server is not an error here.
func NewPublisher(cfg Config, logger watermill.LoggerAdapter) (*Publisher, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, "publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher:      pub,
		circuitBreaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		topic:          cfg.Topic,
		origin:         cfg.InstanceID,
	}, nil
}

// Publish sends msg on topic through the circuit breaker.
func (p *Publisher) Publish(topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	err := executeWithBreaker(p.circuitBreaker, func() error {
		return p.publisher.Publish(topic, msg)
	})
	if err == nil {
		metrics.NATSMessagesPublished.Inc()
	}
	return err
}

// BroadcastNewResult publishes a stored report. Failures are logged; the
// local broadcast and the ingestion response do not depend on them.
func (p *Publisher) BroadcastNewResult(r *models.QualityReport) {
	msg, err := NewResultMessage(r, p.origin)
	if err != nil {
		logging.Warn().Err(err).Msg("Skipping NATS relay of result")
		return
	}
	if err := p.Publish(p.topic, msg); err != nil {
		logging.Warn().Err(err).Str("topic", p.topic).Str("message_id", msg.UUID).
			Msg("Failed to relay result to NATS")
	}
}

// Origin returns the instance id stamped on published messages.
func (p *Publisher) Origin() string {
	return p.origin
}

// Close shuts the publisher down. Closing twice is a no-op.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

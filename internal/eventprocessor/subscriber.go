// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/streamgauge/internal/logging"
)

// Subscriber receives reports relayed by other instances. It satisfies
// websocket.NATSMessageHandler.
type Subscriber struct {
	subscriber message.Subscriber
	origin     string
}

// NewSubscriber connects a core NATS subscriber. Messages stamped with
// cfg.InstanceID are dropped. No queue group is used: every instance must
// see every result.
func NewSubscriber(cfg Config, logger watermill.LoggerAdapter) (*Subscriber, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		AckWaitTimeout:   5 * time.Second,
		CloseTimeout:     5 * time.Second,
		NatsOptions:      natsOptions(cfg, "subscriber", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Subscriber{subscriber: sub, origin: cfg.InstanceID}, nil
}

// Subscribe returns the JSON reports published on topic by other instances.
// The channel closes when ctx ends or the subscriber is closed.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	messages, err := s.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range messages {
			payload, ok := s.accept(msg)
			msg.Ack()
			if !ok {
				continue
			}
			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Subscriber) accept(msg *message.Message) ([]byte, bool) {
	if IsOwnMessage(msg, s.origin) {
		return nil, false
	}
	if _, err := DecodeResultMessage(msg); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).
			Str("origin", msg.Metadata.Get(MetadataOrigin)).
			Msg("Dropping relayed message")
		return nil, false
	}
	return msg.Payload, true
}

// Close releases the NATS connection.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

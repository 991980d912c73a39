// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/metrics"
)

// NATSMessageHandler is a source of relayed messages.
type NATSMessageHandler interface {
	// Subscribe returns the payloads published on topic.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	// Close releases resources.
	Close() error
}

// NATSSubscriber feeds new_result events relayed over NATS into the hub.
type NATSSubscriber struct {
	hub     *Hub
	handler NATSMessageHandler
	topic   string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewNATSSubscriber bridges topic to hub.
func NewNATSSubscriber(hub *Hub, handler NATSMessageHandler, topic string) *NATSSubscriber {
	return &NATSSubscriber{
		hub:     hub,
		handler: handler,
		topic:   topic,
	}
}

// Start subscribes and relays until Stop or ctx ends. Starting a running
// subscriber is a no-op.
func (s *NATSSubscriber) Start(ctx context.Context) error {
	if s.hub == nil || s.handler == nil {
		return errors.New("nats subscriber: hub and handler are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	messages, err := s.handler.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.processMessages(ctx, messages, s.stopCh, s.doneCh)

	logging.Info().Str("topic", s.topic).Msg("NATS to WebSocket subscriber started")
	return nil
}

// Stop ends relaying and waits for the loop to exit.
func (s *NATSSubscriber) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
	logging.Info().Str("topic", s.topic).Msg("NATS to WebSocket subscriber stopped")
}

func (s *NATSSubscriber) processMessages(ctx context.Context, messages <-chan []byte, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case data, ok := <-messages:
			if !ok {
				return
			}
			s.hub.BroadcastRaw(data)
			metrics.NATSMessagesRelayed.Inc()
		}
	}
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamgauge/internal/models"
)

type fakeHandler struct {
	ch     chan []byte
	topics []string
	err    error
}

func (f *fakeHandler) Subscribe(_ context.Context, topic string) (<-chan []byte, error) {
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

func (f *fakeHandler) Close() error { return nil }

func TestNATSSubscriber_RelaysIntoHub(t *testing.T) {
	t.Parallel()
	hub := startHub(t)
	c := fakeClient(hub, 4)
	register(t, hub, c)

	handler := &fakeHandler{ch: make(chan []byte, 4)}
	sub := NewNATSSubscriber(hub, handler, "streamgauge.results.new")
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sub.Stop()

	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if len(handler.topics) != 1 || handler.topics[0] != "streamgauge.results.new" {
		t.Errorf("topics = %v", handler.topics)
	}

	raw, err := json.Marshal(storedReport(11))
	if err != nil {
		t.Fatal(err)
	}
	handler.ch <- raw

	msg := receive(t, c)
	if msg.Data.(*models.QualityReport).ID != 11 {
		t.Errorf("relayed = %#v", msg.Data)
	}
}

func TestNATSSubscriber_StartErrors(t *testing.T) {
	t.Parallel()

	if err := NewNATSSubscriber(nil, &fakeHandler{}, "t").Start(context.Background()); err == nil {
		t.Error("expected error without hub")
	}

	boom := errors.New("no connection")
	sub := NewNATSSubscriber(NewHub(), &fakeHandler{err: boom}, "t")
	if err := sub.Start(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Start() = %v, want %v", err, boom)
	}
	sub.Stop()
}

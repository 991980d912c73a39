// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build !nats

package main

import (
	"testing"

	"github.com/tomtom215/streamgauge/internal/config"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

func TestInitNATS_NotCompiledIn(t *testing.T) {
	cfg := &config.Config{NATS: config.NATSConfig{Enabled: true, URL: "nats://127.0.0.1:4222"}}
	relay, err := InitNATS(cfg, ws.NewHub())
	if err != nil {
		t.Fatalf("InitNATS() error = %v, want fallback to the local hub", err)
	}
	if relay != nil {
		t.Error("expected no relay without the nats tag")
	}
}

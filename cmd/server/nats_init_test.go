// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"testing"

	"github.com/tomtom215/streamgauge/internal/config"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

func TestInitNATS_Disabled(t *testing.T) {
	cfg := &config.Config{}
	relay, err := InitNATS(cfg, ws.NewHub())
	if err != nil {
		t.Fatalf("InitNATS() error = %v", err)
	}
	if relay != nil {
		t.Error("expected no relay when disabled")
	}
}

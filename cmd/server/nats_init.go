// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"errors"

	"github.com/tomtom215/streamgauge/internal/config"
	"github.com/tomtom215/streamgauge/internal/eventprocessor"
	"github.com/tomtom215/streamgauge/internal/logging"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

// InitNATS builds the cross-instance relay when NATS_ENABLED=true. It
// returns nil when the relay is disabled or not compiled in; the local hub
// keeps serving live subscribers either way.
func InitNATS(cfg *config.Config, wsHub *ws.Hub) (*eventprocessor.Relay, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS relay disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	relay, err := eventprocessor.NewRelay(eventprocessor.ConfigFromApp(cfg.NATS), wsHub, nil)
	if errors.Is(err, eventprocessor.ErrNATSNotEnabled) {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("url", relay.URL()).
		Str("instance_id", relay.InstanceID()).
		Msg("NATS relay initialized")
	return relay, nil
}

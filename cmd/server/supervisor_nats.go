// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build nats

package main

import (
	"github.com/tomtom215/streamgauge/internal/eventprocessor"
	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/supervisor"
	"github.com/tomtom215/streamgauge/internal/supervisor/services"
)

// AddNATSToSupervisor runs the relay in the messaging layer.
func AddNATSToSupervisor(tree *supervisor.SupervisorTree, relay *eventprocessor.Relay) {
	if relay == nil {
		return
	}
	tree.AddMessagingService(services.NewNATSRelayService(relay, 0))
	logging.Info().Msg("NATS relay added to supervisor tree (messaging layer)")
}

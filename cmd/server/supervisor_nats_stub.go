// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

//go:build !nats

package main

import (
	"github.com/tomtom215/streamgauge/internal/eventprocessor"
	"github.com/tomtom215/streamgauge/internal/supervisor"
)

// AddNATSToSupervisor is a no-op without the nats build tag.
func AddNATSToSupervisor(_ *supervisor.SupervisorTree, _ *eventprocessor.Relay) {}

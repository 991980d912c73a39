// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package services adapts StreamGauge components to suture.Service.
//
// Each wrapper turns a component lifecycle (ListenAndServe, RunWithContext,
// Start/Shutdown, a periodic task) into Serve(ctx) error and names itself via
// String for supervisor logs. Wrappers depend on small interfaces, not on
// the component packages, so they can be tested with doubles.
package services

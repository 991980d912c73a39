// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package eventprocessor relays new_result events between StreamGauge
// instances over core NATS.
//
// Each instance still fans out to its own WebSocket subscribers through the
// local hub. With the relay enabled, ingestion additionally publishes every
// accepted report to NATS; every other instance receives it and broadcasts
// it to its own subscribers. Messages carry the publishing instance id in
// the "origin" metadata field, and a subscriber drops its own messages so a
// local subscriber sees each event exactly once.
//
// Delivery is at-most-once. JetStream is not used: a subscriber that is
// disconnected when a result is published never sees it, matching the
// in-memory semantics of the live channel.
//
// The NATS-backed types require the nats build tag:
//
//	go build -tags nats ./cmd/server
//
// Without it, NewRelay and NewEmbeddedServer return ErrNATSNotEnabled. The
// message codec and circuit breaker are always compiled.
package eventprocessor

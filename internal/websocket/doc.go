// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Package websocket is the live channel: it fans every persisted quality report
out to the dashboards connected at that moment.

The Hub owns the subscriber registry. Clients are added and removed on
connect and disconnect, and a broadcast walks the registry once:

	ingest.Service ──BroadcastNewResult──▶ Hub ──new_result──▶ Client 1..n

Delivery is best-effort and at-most-once per subscriber. BroadcastNewResult
never blocks: when the hub queue is full the event is dropped, and a client
whose send buffer is full is disconnected without affecting the others. A
dashboard that reconnects reconciles through GET /api/videos.

Wire format, one JSON text frame per event:

	{"type":"new_result","data":{"id":7,"video_name":"Sample",...}}

Clients may send {"type":"ping"} and receive {"type":"pong"}.

With -tags nats, NATSSubscriber relays new_result events published by other
instances into the local hub.
*/
package websocket

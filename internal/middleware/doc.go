// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Package middleware provides the HTTP middleware shared by the ingestion API.

  - RequestID: accepts or mints an X-Request-ID and puts request and
    correlation ids into the logging context.
  - PrometheusMetrics: records request count, latency and in-flight requests,
    labelled by the chi route pattern rather than the raw path.

Both are func(http.HandlerFunc) http.HandlerFunc and are adapted to chi's
r.Use in the api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

The response writer wrapper used for metrics forwards http.Hijacker and
http.Flusher, so it is safe in front of the WebSocket upgrade.
*/
package middleware

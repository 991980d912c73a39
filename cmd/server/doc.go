// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Package main is the entry point for the StreamGauge ingestion server.

StreamGauge collects video playback quality reports produced by the
in-player analyzer (or the probe CLI), stores them in DuckDB and pushes each
accepted report to every connected dashboard as a new_result WebSocket
event.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("streamgauge")
	├── DataSupervisor ("data-layer")
	│   └── DuckDB checkpoints
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live channel)
	│   └── NATS relay (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB result store
 4. WebSocket Hub
 5. NATS relay (when enabled and compiled in)
 6. Ingestion service broadcasting to the hub and relay, with the report list cache
 7. Chi router with request ids, CORS, rate limiting and metrics
 8. Supervisor tree, then signal handling

# Configuration

Priority: environment variables > config file (CONFIG_PATH) > defaults.

	HTTP_PORT=5000
	DUCKDB_PATH=/data/streamgauge.duckdb
	DUCKDB_CHECKPOINT_INTERVAL=5m
	LIST_CACHE_TTL=30s        # 0 disables the report list cache
	LOG_LEVEL=info
	LOG_FORMAT=json
	CORS_ORIGINS=*
	RATE_LIMIT_REQUESTS=120
	RATE_LIMIT_WINDOW=1m

	# Cross-instance relay (binary built with -tags nats)
	NATS_ENABLED=true
	NATS_URL=nats://nats:4222
	NATS_EMBEDDED=false

# Endpoints

	POST /api/videos/add     submit a quality report
	GET  /api/videos         list stored reports, newest first
	GET  /api/health         liveness
	GET  /api/health/ready   readiness (pings DuckDB)
	GET  /ws                 live channel (new_result events)
	GET  /metrics            Prometheus metrics
	GET  /swagger/           API documentation

# Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server drains, the hub
closes every subscriber, the relay disconnects and the database is
checkpointed and closed. Services that miss the shutdown timeout are
reported by name.
*/
package main

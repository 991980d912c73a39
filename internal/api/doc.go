// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Package api is the HTTP surface of the ingestion service.

Routes:

	POST /api/videos/add     submit one quality report (rate limited per IP)
	GET  /api/videos         every stored report, newest first
	GET  /api/health         liveness, never touches the store
	GET  /api/health/ready   readiness, pings the result store
	GET  /ws                 live dashboard channel (new_result events)
	GET  /metrics            Prometheus exposition
	GET  /swagger/*          API documentation

JSON endpoints other than /api/health answer with the APIResponse envelope:

	{"success": true,  "data": {...}, "meta": {...}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}, "meta": {...}}

POST /api/videos/add is the exception. It answers flat so that simple
clients can read the receipt or the failure without unwrapping:

	{"success": true,  "message": "Data inserted", "id": 7, "test_timestamp": "...", "data": {...}, "meta": {...}}
	{"success": false, "error": "Database error", "code": "DATABASE_ERROR", "message": "...", "meta": {...}}

Error codes are listed as ErrCode constants in response.go.
*/
package api

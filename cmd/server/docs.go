// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// @title StreamGauge API
// @version 1.0
// @description Ingestion and live fan-out of video playback quality reports.
// @description
// @description Successful responses and errors share one envelope:
// @description `{"success": bool, "data": ..., "error": {"code", "message", "details"}, "meta": {...}}`.
// @description Submissions are rate limited per client IP (default 120 per minute).
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/streamgauge/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @tag.name Videos
// @tag.description Quality report submission and listing
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package api

import (
	"context"
	"time"

	"github.com/tomtom215/streamgauge/internal/config"
	"github.com/tomtom215/streamgauge/internal/models"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

// ReportService is the ingestion service as seen by the handlers.
type ReportService interface {
	SubmitRequest(ctx context.Context, req *models.SubmitReportRequest) (models.Receipt, error)
	List(ctx context.Context) ([]models.QualityReport, error)
}

// HealthChecker reports whether the result store answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_videos.go: report submission and listing
//   - handlers_health.go: liveness and readiness
//   - handlers_websocket.go: live dashboard channel
type Handler struct {
	reports   ReportService
	store     HealthChecker
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler wires the handlers. store and wsHub may be nil; readiness then
// reports the store as down and /ws answers 503.
func NewHandler(reports ReportService, store HealthChecker, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		reports:   reports,
		store:     store,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

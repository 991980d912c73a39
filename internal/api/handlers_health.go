// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthMessage is the fixed liveness message.
const HealthMessage = "StreamGauge ingestion is running"

// readyPingTimeout bounds the store ping on readiness checks.
const readyPingTimeout = 2 * time.Second

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessStatus is the readiness payload.
type ReadinessStatus struct {
	DatabaseConnected bool    `json:"database_connected"`
	LiveSubscribers   int     `json:"live_subscribers"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health reports that the process is serving. It never touches the store.
//
// @Summary Liveness check
// @Description Returns OK while the process is serving requests.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   HealthMessage,
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady answers 200 only when the result store responds.
//
// @Summary Readiness check
// @Description Pings the result store. Returns 503 when it is unreachable.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=ReadinessStatus} "Ready"
// @Failure 503 {object} APIResponse "Result store unavailable"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	status := ReadinessStatus{
		DatabaseConnected: h.store != nil && h.store.Ping(ctx) == nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.wsHub != nil {
		status.LiveSubscribers = h.wsHub.ClientCount()
	}

	if !status.DatabaseConnected {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Result store unavailable", status)
		return
	}
	rw.Success(status)
}

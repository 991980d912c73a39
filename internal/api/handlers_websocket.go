// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/streamgauge/internal/logging"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

// WebSocket upgrades a dashboard connection and subscribes it to new_result
// events. Subscribers receive only events published after they attach.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("Live channel unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade error")
		return
	}

	if err := h.wsHub.Attach(r.Context(), ws.NewClient(h.wsHub, conn)); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket attach failed")
		_ = conn.Close()
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin against the CORS allow-list. A
// missing Origin (non-browser client) is accepted only when the allow-list
// is the "*" wildcard.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	var allowed []string
	if h.config != nil {
		allowed = h.config.Security.CORSOrigins
	}

	for _, allowedOrigin := range allowed {
		if allowedOrigin == "*" {
			return true
		}
		if origin != "" && allowedOrigin == origin {
			return true
		}
	}

	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

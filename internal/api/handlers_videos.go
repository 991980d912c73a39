// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/streamgauge/internal/ingest"
	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/models"
	"github.com/tomtom215/streamgauge/internal/validation"
)

// AddVideo accepts one quality report.
//
// @Summary Submit a quality report
// @Description Validates and stores one playback quality report, then pushes it to live dashboards as a new_result event.
// @Tags Videos
// @Accept json
// @Produce json
// @Param report body models.SubmitReportRequest true "Quality report"
// @Success 201 {object} SubmitResponse "Report stored"
// @Failure 400 {object} SubmitErrorResponse "Validation failed"
// @Failure 413 {object} SubmitErrorResponse "Body too large"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Failure 500 {object} SubmitErrorResponse "Result store failure"
// @Router /videos/add [post]
func (h *Handler) AddVideo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.SubmitReportRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			apiErr := verr.ToAPIError()
			rw.SubmitError(http.StatusBadRequest, ErrCodeValidation, apiErr.Message, apiErr.Details)
		case errors.Is(err, errBodyTooLarge):
			rw.SubmitError(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large", nil)
		default:
			rw.SubmitError(http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		}
		return
	}

	receipt, err := h.reports.SubmitRequest(r.Context(), &req)
	if err != nil {
		var verr *ingest.ValidationError
		switch {
		case errors.As(err, &verr):
			apiErr := verr.Fields.ToAPIError()
			rw.SubmitError(http.StatusBadRequest, ErrCodeValidation, apiErr.Message, apiErr.Details)
		case errors.Is(err, ingest.ErrStorage):
			logging.Ctx(r.Context()).Error().Err(err).Msg("Database error")
			rw.SubmitError(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to store quality report", nil)
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("Unexpected submission failure")
			rw.SubmitError(http.StatusInternalServerError, ErrCodeInternalError, "Failed to process quality report", nil)
		}
		return
	}

	rw.SubmitAccepted(receipt)
}

// ListVideos returns every stored report, newest first.
//
// @Summary List quality reports
// @Description Returns all stored quality reports ordered by test_timestamp, newest first.
// @Tags Videos
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.QualityReport} "Stored reports"
// @Failure 500 {object} APIResponse "Result store failure"
// @Router /videos [get]
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reports, err := h.reports.List(r.Context())
	if err != nil {
		rw.DatabaseError("Failed to fetch quality reports", err)
		return
	}
	rw.List(reports, len(reports))
}

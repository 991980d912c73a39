// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package submitter delivers a finished QualityReport to the ingestion
// service. Every submitter makes exactly one attempt per report; nothing is
// queued, retried, or deduplicated.
package submitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/streamgauge/internal/models"
)

// ErrSubmissionTransport marks failures to reach the ingestion service or to
// read its answer. The report is lost when this happens.
var ErrSubmissionTransport = errors.New("submission transport failure")

// Submitter sends one report and reports the outcome.
type Submitter interface {
	Submit(ctx context.Context, report *models.QualityReport) SubmissionResult
}

// SubmissionResult carries the assigned id on success or the failure.
type SubmissionResult struct {
	ID        int64
	Timestamp time.Time
	Err       error
}

// OK reports whether the ingestion service accepted the report.
func (r SubmissionResult) OK() bool {
	return r.Err == nil && r.ID > 0
}

// Marker is the short local display marker for the outcome.
func (r SubmissionResult) Marker() string {
	if r.OK() {
		return "success"
	}
	return "error"
}

// TransportError wraps a network, breaker, or decoding failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submit report: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrSubmissionTransport and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrSubmissionTransport, e.Err}
}

// RejectedError is an error payload returned by the ingestion service.
type RejectedError struct {
	Status  int
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("submit report: rejected with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("submit report: rejected with status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Ingestor is the in-process ingestion boundary (ingest.Service).
type Ingestor interface {
	Submit(ctx context.Context, report *models.QualityReport) (models.Receipt, error)
}

// LocalSubmitter hands reports straight to an in-process Ingestor.
type LocalSubmitter struct {
	ingestor Ingestor
}

// NewLocalSubmitter returns a submitter bound to ingestor.
func NewLocalSubmitter(ingestor Ingestor) *LocalSubmitter {
	return &LocalSubmitter{ingestor: ingestor}
}

// Submit implements Submitter. Ingestion errors are returned unchanged.
func (s *LocalSubmitter) Submit(ctx context.Context, report *models.QualityReport) SubmissionResult {
	if report == nil {
		return SubmissionResult{Err: errors.New("submit report: nil report")}
	}
	receipt, err := s.ingestor.Submit(ctx, report)
	if err != nil {
		return SubmissionResult{Err: err}
	}
	return SubmissionResult{ID: receipt.ID, Timestamp: receipt.TestTimestamp}
}

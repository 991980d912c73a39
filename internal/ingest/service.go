// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package ingest accepts quality reports, persists them, and announces each
// persisted report to the live channel.
//
// Persistence is the durability boundary. A report is broadcast only after
// the store returned its id, and a broadcast can never fail a submission.
package ingest

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/tomtom215/streamgauge/internal/cache"
	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/metrics"
	"github.com/tomtom215/streamgauge/internal/models"
	"github.com/tomtom215/streamgauge/internal/validation"
)

// Store is the append-only result store.
type Store interface {
	InsertReport(ctx context.Context, r *models.QualityReport) (id int64, ts time.Time, err error)
	ListReports(ctx context.Context) ([]models.QualityReport, error)
}

// Broadcaster announces a persisted report. Implementations must not block.
type Broadcaster interface {
	BroadcastNewResult(r *models.QualityReport)
}

// Service is the ingestion boundary. Safe for concurrent use.
type Service struct {
	store        Store
	broadcasters []Broadcaster
	clock        clock.PassiveClock
	listCache    *cache.Cache
}

const listCacheKey = "reports:all"

// NewService returns a Service. A nil clock means the real clock.
func NewService(store Store, clk clock.PassiveClock, broadcasters ...Broadcaster) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	live := make([]Broadcaster, 0, len(broadcasters))
	for _, b := range broadcasters {
		if b != nil {
			live = append(live, b)
		}
	}
	return &Service{store: store, broadcasters: live, clock: clk}
}

// WithListCache serves List from c until the next accepted submission or
// until the entry expires. Call before the service is shared.
func (s *Service) WithListCache(c *cache.Cache) *Service {
	s.listCache = c
	return s
}

// SubmitRequest checks that every field of a wire request is present and
// then submits it.
func (s *Service) SubmitRequest(ctx context.Context, req *models.SubmitReportRequest) (models.Receipt, error) {
	if req == nil {
		return models.Receipt{}, s.reject(ctx, time.Now(), validation.NewRequestValidationError("body", "required", "request body is required"))
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return models.Receipt{}, s.reject(ctx, time.Now(), verr)
	}
	return s.Submit(ctx, req.ToReport())
}

// Submit validates r, stores a normalized copy stamped with the acceptance
// time, broadcasts the stored record, and returns its id and timestamp.
// r is not modified.
func (s *Service) Submit(ctx context.Context, r *models.QualityReport) (models.Receipt, error) {
	start := time.Now()
	if r == nil {
		return models.Receipt{}, s.reject(ctx, start, validation.NewRequestValidationError("body", "required", "report is required"))
	}

	record := r.Normalized()
	record.ID = 0
	if verr := validation.ValidateStruct(&record); verr != nil {
		return models.Receipt{}, s.reject(ctx, start, verr)
	}
	record.TestTimestamp = s.clock.Now().UTC()

	id, ts, err := s.store.InsertReport(ctx, &record)
	if err != nil {
		metrics.RecordSubmission(metrics.OutcomeStorageError, time.Since(start), 0)
		logging.Ctx(ctx).Error().Err(err).Str("video_name", record.VideoName).Msg("Failed to store quality report")
		return models.Receipt{}, &StorageError{Op: "insert report", Err: err}
	}
	record.ID = id
	if !ts.IsZero() {
		record.TestTimestamp = ts.UTC()
	}

	metrics.RecordSubmission(metrics.OutcomeAccepted, time.Since(start), record.StartupTime)
	logging.Ctx(ctx).Info().
		Int64("id", record.ID).
		Str("video_name", record.VideoName).
		Float64("startup_time", record.StartupTime).
		Int("buffering_count", record.BufferingCount).
		Msg("Quality report stored")

	if s.listCache != nil {
		s.listCache.Clear()
	}
	s.broadcast(ctx, &record)
	return models.Receipt{ID: record.ID, TestTimestamp: record.TestTimestamp}, nil
}

// List returns every stored report, most recent first.
func (s *Service) List(ctx context.Context) ([]models.QualityReport, error) {
	var gen uint64
	if s.listCache != nil {
		if cached, ok := s.listCache.Get(listCacheKey); ok {
			if reports, ok := cached.([]models.QualityReport); ok {
				return append([]models.QualityReport{}, reports...), nil
			}
		}
		gen = s.listCache.Generation()
	}

	reports, err := s.store.ListReports(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to list quality reports")
		return nil, &StorageError{Op: "list reports", Err: err}
	}
	if reports == nil {
		reports = []models.QualityReport{}
	}
	if s.listCache != nil {
		s.listCache.SetIfGeneration(listCacheKey, append([]models.QualityReport{}, reports...), gen)
	}
	return reports, nil
}

func (s *Service) reject(ctx context.Context, start time.Time, verr *validation.RequestValidationError) error {
	metrics.RecordSubmission(metrics.OutcomeInvalid, time.Since(start), 0)
	logging.Ctx(ctx).Debug().Err(verr).Msg("Rejected quality report")
	return &ValidationError{Fields: verr}
}

// broadcast hands each broadcaster its own copy. A panicking broadcaster is
// logged and skipped.
func (s *Service) broadcast(ctx context.Context, record *models.QualityReport) {
	for _, b := range s.broadcasters {
		func() {
			defer func() {
				if p := recover(); p != nil {
					logging.Ctx(ctx).Error().Interface("panic", p).Int64("id", record.ID).Msg("Broadcaster panicked")
				}
			}()
			event := *record
			b.BroadcastNewResult(&event)
		}()
	}
}

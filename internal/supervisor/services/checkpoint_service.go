// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package services

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/tomtom215/streamgauge/internal/logging"
)

// checkpointTimeout bounds one checkpoint.
const checkpointTimeout = 30 * time.Second

// Checkpointer is satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically flushes the result store's write-ahead log
// into the database file so a crash replays little on restart. A failed
// checkpoint is logged and retried on the next tick; it never stops the
// service.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	clock    clock.WithTicker
	name     string
}

// NewCheckpointService checkpoints db every interval. A nil clock means the
// real clock; non-positive interval means 5 minutes.
func NewCheckpointService(db Checkpointer, interval time.Duration, clk clock.WithTicker) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		clock:    clk,
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	start := s.clock.Now()
	if err := s.db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Checkpoint failed")
		return
	}
	logging.Debug().Str("service", s.name).Dur("duration", s.clock.Since(start)).Msg("Checkpoint completed")
}

func (s *CheckpointService) String() string {
	return s.name
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/streamgauge/internal/metrics"
	"github.com/tomtom215/streamgauge/internal/models"
)

const insertReportSQL = `
	INSERT INTO video_tests (
		video_name, startup_time, buffering_count, buffering_duration,
		avg_resolution, freeze_percent, test_timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id, test_timestamp`

const listReportsSQL = `
	SELECT id, video_name, startup_time, buffering_count, buffering_duration,
	       avg_resolution, freeze_percent, test_timestamp
	FROM video_tests
	ORDER BY test_timestamp DESC, id DESC`

// InsertReport appends r and returns the id assigned by the sequence and the
// stored timestamp. A zero r.TestTimestamp is stamped with the current UTC
// time. r itself is not modified.
func (db *DB) InsertReport(ctx context.Context, r *models.QualityReport) (id int64, ts time.Time, err error) {
	if r == nil {
		return 0, time.Time{}, fmt.Errorf("insert report: nil report")
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	stamp := r.TestTimestamp
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", ReportsTable, time.Since(start), err)
	}()

	err = db.conn.QueryRowContext(ctx, insertReportSQL,
		r.VideoName,
		r.StartupTime,
		r.BufferingCount,
		r.BufferingDuration,
		r.AvgResolution,
		r.FreezePercent,
		stamp,
	).Scan(&id, &ts)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert report: %w", err)
	}
	return id, ts.UTC(), nil
}

// ListReports returns every stored report, most recent first. Reports that
// share a timestamp are ordered by id, highest first.
func (db *DB) ListReports(ctx context.Context) (reports []models.QualityReport, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select", ReportsTable, time.Since(start), err)
	}()

	rows, err := db.conn.QueryContext(ctx, listReportsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer closeWithLog(rows, "report rows")

	reports = make([]models.QualityReport, 0)
	for rows.Next() {
		var r models.QualityReport
		if err = rows.Scan(
			&r.ID,
			&r.VideoName,
			&r.StartupTime,
			&r.BufferingCount,
			&r.BufferingDuration,
			&r.AvgResolution,
			&r.FreezePercent,
			&r.TestTimestamp,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.TestTimestamp = r.TestTimestamp.UTC()
		reports = append(reports, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// CountReports returns the number of stored reports.
func (db *DB) CountReports(ctx context.Context) (n int64, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("count", ReportsTable, time.Since(start), err)
	}()

	err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_tests").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

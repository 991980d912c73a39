// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package database

import (
	"context"
	"fmt"
)

// ReportsTable is the relation holding every accepted report.
const ReportsTable = "video_tests"

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"sequence", `CREATE SEQUENCE IF NOT EXISTS video_tests_id_seq START 1`},
	{"table", `CREATE TABLE IF NOT EXISTS video_tests (
		id                 BIGINT PRIMARY KEY DEFAULT nextval('video_tests_id_seq'),
		video_name         VARCHAR NOT NULL,
		startup_time       DOUBLE NOT NULL,
		buffering_count    INTEGER NOT NULL,
		buffering_duration DOUBLE NOT NULL,
		avg_resolution     VARCHAR NOT NULL,
		freeze_percent     DOUBLE NOT NULL,
		test_timestamp     TIMESTAMPTZ NOT NULL
	)`},
	{"timestamp index", `CREATE INDEX IF NOT EXISTS idx_video_tests_test_timestamp ON video_tests (test_timestamp)`},
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

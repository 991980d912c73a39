// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package models holds the data types shared by the analyzer, the ingestion
// path, the result store, and the live channel.
package models

import (
	"math"
	"strings"
	"time"
)

// QualityReport is one completed analysis of one playback session.
//
// ID and TestTimestamp are zero until the ingestion service accepts the
// report; after that the record is never modified. The JSON shape is the
// shape of one stored row and of one new_result live event.
type QualityReport struct {
	ID                int64     `json:"id"`
	VideoName         string    `json:"video_name" validate:"required,max=255"`
	StartupTime       float64   `json:"startup_time" validate:"finite,gte=0"`
	BufferingCount    int       `json:"buffering_count" validate:"gte=0,lte=2147483647"`
	BufferingDuration float64   `json:"buffering_duration" validate:"finite,gte=0"`
	AvgResolution     string    `json:"avg_resolution" validate:"required,max=32"`
	FreezePercent     float64   `json:"freeze_percent" validate:"finite,gte=0,lte=100"`
	TestTimestamp     time.Time `json:"test_timestamp"`
}

// Receipt is what the ingestion service returns for an accepted report.
type Receipt struct {
	ID            int64     `json:"id"`
	TestTimestamp time.Time `json:"test_timestamp"`
}

// SubmitReportRequest is the wire form of a submission. Pointer fields let
// the ingestion boundary tell an absent value from a zero value.
type SubmitReportRequest struct {
	VideoName         *string  `json:"video_name" validate:"required"`
	StartupTime       *float64 `json:"startup_time" validate:"required"`
	BufferingCount    *int     `json:"buffering_count" validate:"required"`
	BufferingDuration *float64 `json:"buffering_duration" validate:"required"`
	AvgResolution     *string  `json:"avg_resolution" validate:"required"`
	FreezePercent     *float64 `json:"freeze_percent" validate:"required"`
}

// NewSubmitReportRequest copies the analyzer-produced fields of r.
func NewSubmitReportRequest(r *QualityReport) *SubmitReportRequest {
	name, res := r.VideoName, r.AvgResolution
	startup, count, duration, freeze := r.StartupTime, r.BufferingCount, r.BufferingDuration, r.FreezePercent
	return &SubmitReportRequest{
		VideoName:         &name,
		StartupTime:       &startup,
		BufferingCount:    &count,
		BufferingDuration: &duration,
		AvgResolution:     &res,
		FreezePercent:     &freeze,
	}
}

// ToReport converts a validated request. Call only after the required
// checks passed; nil fields become zero values.
func (r *SubmitReportRequest) ToReport() *QualityReport {
	report := &QualityReport{}
	if r.VideoName != nil {
		report.VideoName = strings.TrimSpace(*r.VideoName)
	}
	if r.StartupTime != nil {
		report.StartupTime = *r.StartupTime
	}
	if r.BufferingCount != nil {
		report.BufferingCount = *r.BufferingCount
	}
	if r.BufferingDuration != nil {
		report.BufferingDuration = *r.BufferingDuration
	}
	if r.AvgResolution != nil {
		report.AvgResolution = strings.TrimSpace(*r.AvgResolution)
	}
	if r.FreezePercent != nil {
		report.FreezePercent = *r.FreezePercent
	}
	return report
}

// Round2 rounds v to two decimal places. NaN and infinities pass through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// Normalized returns a copy with trimmed strings and every numeric rounded
// to two decimals, the precision at which reports are stored.
func (r QualityReport) Normalized() QualityReport {
	r.VideoName = strings.TrimSpace(r.VideoName)
	r.AvgResolution = strings.TrimSpace(r.AvgResolution)
	r.StartupTime = Round2(r.StartupTime)
	r.BufferingDuration = Round2(r.BufferingDuration)
	r.FreezePercent = Round2(r.FreezePercent)
	return r
}

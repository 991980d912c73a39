// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/streamgauge/internal/analyzer"
	"github.com/tomtom215/streamgauge/internal/models"
)

func mustParse(t *testing.T, trace string) []traceRecord {
	t.Helper()
	records, err := parseTrace(strings.NewReader(trace))
	if err != nil {
		t.Fatalf("parseTrace() error = %v", err)
	}
	return records
}

func TestReplayTrace_FullSession(t *testing.T) {
	outcome, err := replayTrace(context.Background(), mustParse(t, sampleTrace), "big_buck_bunny", analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("replayTrace() error = %v", err)
	}

	want := models.QualityReport{
		VideoName:         "big_buck_bunny",
		StartupTime:       0.6,
		BufferingCount:    1,
		BufferingDuration: 0.5,
		AvgResolution:     "1080p",
		FreezePercent:     25,
	}
	if *outcome.Report != want {
		t.Errorf("report = %+v, want %+v", *outcome.Report, want)
	}
	if outcome.Result != analyzer.ResultEnded {
		t.Errorf("result = %q, want %q", outcome.Result, analyzer.ResultEnded)
	}
}

func TestReplayTrace_WindowElapses(t *testing.T) {
	trace := `{"event":"play","at_ms":0}
{"event":"timeupdate","at_ms":1500,"position":0.1}
{"event":"waiting","at_ms":2000}
{"event":"timeupdate","at_ms":12000,"position":0.2}
{"event":"ended","at_ms":15000}`

	opts := analyzer.DefaultOptions()
	opts.Window = 5 * time.Second
	outcome, err := replayTrace(context.Background(), mustParse(t, trace), "", opts)
	if err != nil {
		t.Fatalf("replayTrace() error = %v", err)
	}

	r := outcome.Report
	if outcome.Result != analyzer.ResultWindowElapsed {
		t.Errorf("result = %q, want window_elapsed", outcome.Result)
	}
	if r.VideoName != analyzer.DefaultVideoName {
		t.Errorf("VideoName = %q, want default", r.VideoName)
	}
	if r.StartupTime != 1.5 {
		t.Errorf("StartupTime = %v, want 1.5", r.StartupTime)
	}
	// The open stall is closed at the window end, 3s after it began.
	if r.BufferingCount != 1 || r.BufferingDuration != 3 {
		t.Errorf("buffering = %d/%v, want 1/3", r.BufferingCount, r.BufferingDuration)
	}
	if r.AvgResolution != "720p" {
		t.Errorf("AvgResolution = %q, want fallback 720p", r.AvgResolution)
	}
}

func TestReplayTrace_NeverStarted(t *testing.T) {
	trace := `{"event":"timeupdate","at_ms":100,"position":0.5}`
	_, err := replayTrace(context.Background(), mustParse(t, trace), "", analyzer.DefaultOptions())
	if !errors.Is(err, errNoReport) {
		t.Errorf("replayTrace() error = %v, want errNoReport", err)
	}
}

func TestReplayTrace_PlayerError(t *testing.T) {
	trace := `{"event":"play","at_ms":0}
{"event":"error","at_ms":300,"message":"MEDIA_ERR_DECODE"}
{"event":"ended","at_ms":400}`

	outcome, err := replayTrace(context.Background(), mustParse(t, trace), "", analyzer.DefaultOptions())
	if !errors.Is(err, analyzer.ErrAnalysisAborted) {
		t.Fatalf("replayTrace() error = %v, want ErrAnalysisAborted", err)
	}
	if !strings.Contains(err.Error(), "MEDIA_ERR_DECODE") {
		t.Errorf("error %q should carry the player message", err)
	}
	if outcome.Report != nil {
		t.Error("aborted session must not produce a report")
	}
}

func TestReplayTrace_IgnoresRecordsAfterWindow(t *testing.T) {
	trace := `{"event":"play","at_ms":0,"height":480}
{"event":"timeupdate","at_ms":500,"position":0.5}
{"event":"timeupdate","at_ms":20000,"position":19.5,"height":2160}`

	for i := 0; i < 50; i++ {
		outcome, err := replayTrace(context.Background(), mustParse(t, trace), "late", analyzer.DefaultOptions())
		if err != nil {
			t.Fatalf("replayTrace() error = %v", err)
		}
		if outcome.Result != analyzer.ResultWindowElapsed {
			t.Fatalf("result = %q, want window_elapsed", outcome.Result)
		}
		if got := outcome.Report.AvgResolution; got != "480p" {
			t.Fatalf("run %d: AvgResolution = %q, want 480p read at the window end", i, got)
		}
		if got := outcome.Report.StartupTime; got != 0.5 {
			t.Fatalf("run %d: StartupTime = %v, want 0.5", i, got)
		}
	}
}

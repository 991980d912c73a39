// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"context"
	"errors"
	"time"

	clocktesting "k8s.io/utils/clock/testing"

	"github.com/tomtom215/streamgauge/internal/analyzer"
	"github.com/tomtom215/streamgauge/internal/models"
)

// replayEpoch anchors trace offsets on the fake clock.
var replayEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// errNoReport means the trace never requested playback or it aborted.
var errNoReport = errors.New("trace produced no report (no play event)")

// replayOutcome is the analyzer result for one trace.
type replayOutcome struct {
	Report *models.QualityReport
	Result string
}

// replayTrace drives one analyzer session from records. The fake clock is
// moved to each record's offset before the event is delivered. Records at or
// after the window end are never applied: the clock stops at the window end
// and the session finalizes with the element state it had then.
func replayTrace(ctx context.Context, records []traceRecord, name string, opts analyzer.Options) (replayOutcome, error) {
	clk := clocktesting.NewFakeClock(replayEpoch)
	media := &traceMedia{}
	session := analyzer.NewSession(name, media, clk, opts)
	window := session.Analyzer().Options().Window

	events := make(chan analyzer.Event)
	type runResult struct {
		report *models.QualityReport
		err    error
	}
	done := make(chan runResult, 1)
	go func() {
		report, err := session.Run(ctx, events)
		done <- runResult{report, err}
	}()

	var windowEnd time.Time
feed:
	for _, rec := range records {
		at := replayEpoch.Add(rec.offset())
		if !windowEnd.IsZero() && !at.Before(windowEnd) {
			clk.SetTime(windowEnd)
			break feed
		}
		if windowEnd.IsZero() && rec.kind == analyzer.EventPlayIntent {
			windowEnd = at.Add(window)
		}
		clk.SetTime(at)
		media.apply(rec)

		ev := analyzer.Event{Kind: rec.kind, At: at, Position: rec.Position}
		if rec.kind == analyzer.EventError {
			msg := rec.Message
			if msg == "" {
				msg = "media error"
			}
			ev.Err = errors.New(msg)
		}

		select {
		case events <- ev:
		case <-session.Done():
			break feed
		}
	}
	close(events)

	res := <-done
	outcome := replayOutcome{Report: res.report, Result: session.Result()}
	if res.err != nil {
		return outcome, res.err
	}
	if res.report == nil {
		return outcome, errNoReport
	}
	return outcome, nil
}

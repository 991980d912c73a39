// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

type fakeMedia struct {
	position float64
	duration float64
	height   int
}

func (m *fakeMedia) CurrentTime() float64 { return m.position }
func (m *fakeMedia) Duration() float64    { return m.duration }
func (m *fakeMedia) VideoHeight() int     { return m.height }

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func mustHandle(t *testing.T, a *Analyzer, events ...Event) {
	t.Helper()
	for _, ev := range events {
		if err := a.Handle(ev); err != nil {
			t.Fatalf("Handle(%s) error = %v", ev.Kind, err)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzer_FullSession(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Sample", &fakeMedia{height: 1080}, clk, DefaultOptions())

	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(250), Position: 0},
		Event{Kind: EventTimeUpdate, At: at(1230), Position: 0.05},
	)
	if a.State() != StateMeasuring {
		t.Fatalf("State = %s, want measuring", a.State())
	}

	mustHandle(t, a,
		Event{Kind: EventWaiting, At: at(2000)},
		Event{Kind: EventWaiting, At: at(2100)},
		Event{Kind: EventCanPlay, At: at(2500)},
		Event{Kind: EventTimeUpdate, At: at(2600), Position: 1.2},
		Event{Kind: EventWaiting, At: at(4000)},
		Event{Kind: EventCanPlay, At: at(4300)},
		Event{Kind: EventTimeUpdate, At: at(4400), Position: 2.9},
		Event{Kind: EventEnded, At: at(5000)},
	)

	if a.State() != StateDone {
		t.Fatalf("State = %s, want done", a.State())
	}
	r := a.Report()
	if r == nil {
		t.Fatal("Report() = nil after ended")
	}
	if r.VideoName != "Sample" {
		t.Errorf("VideoName = %q, want Sample", r.VideoName)
	}
	if !approx(r.StartupTime, 1.23) {
		t.Errorf("StartupTime = %v, want 1.23", r.StartupTime)
	}
	if r.BufferingCount != 2 {
		t.Errorf("BufferingCount = %d, want 2", r.BufferingCount)
	}
	if !approx(r.BufferingDuration, 0.8) {
		t.Errorf("BufferingDuration = %v, want 0.8", r.BufferingDuration)
	}
	if r.AvgResolution != "1080p" {
		t.Errorf("AvgResolution = %q, want 1080p", r.AvgResolution)
	}
	// 250->1230 is frozen (980ms, +0.05s); the other two intervals advance.
	if !approx(r.FreezePercent, 33.33) {
		t.Errorf("FreezePercent = %v, want 33.33", r.FreezePercent)
	}
	if !r.TestTimestamp.IsZero() || r.ID != 0 {
		t.Error("analyzer must not assign id or timestamp")
	}
}

func TestAnalyzer_NeverProgressesReportsWindow(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("", nil, clk, DefaultOptions())
	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	mustHandle(t, a, Event{Kind: EventTimeUpdate, At: at(400), Position: 0})

	clk.Step(12 * time.Second)
	r, first := a.Expire()
	if !first || r == nil {
		t.Fatalf("Expire() = %v, %v; want report, true", r, first)
	}
	if !approx(r.StartupTime, 10.0) {
		t.Errorf("StartupTime = %v, want 10.0", r.StartupTime)
	}
	if r.VideoName != DefaultVideoName {
		t.Errorf("VideoName = %q, want %q", r.VideoName, DefaultVideoName)
	}
	if r.AvgResolution != "720p" {
		t.Errorf("AvgResolution = %q, want 720p fallback", r.AvgResolution)
	}
	if r.FreezePercent != 0 {
		t.Errorf("FreezePercent = %v, want 0 with one sample", r.FreezePercent)
	}
	if !a.Expired() {
		t.Error("Expired() = false after window expiry")
	}

	again, first := a.Finalize()
	if first {
		t.Error("second Finalize reported first=true")
	}
	if again != r {
		t.Error("second Finalize returned a different report")
	}
}

func TestAnalyzer_EventAfterWindowExpires(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Late", nil, clk, Options{Window: 2 * time.Second})

	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(2500), Position: 1},
	)
	if a.State() != StateDone || !a.Expired() {
		t.Fatalf("State = %s expired=%v, want done by window", a.State(), a.Expired())
	}
	if !approx(a.Report().StartupTime, 2.0) {
		t.Errorf("StartupTime = %v, want 2.0 (late progress ignored)", a.Report().StartupTime)
	}
	if err := a.Handle(Event{Kind: EventEnded, At: at(2600)}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Handle after done = %v, want ErrSessionClosed", err)
	}
}

func TestAnalyzer_RepeatedPlayDoesNotResetStartup(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Replay", nil, clk, DefaultOptions())
	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventPlayIntent, At: at(700)},
		Event{Kind: EventPlaying, At: at(900), Position: 0.3},
		Event{Kind: EventEnded, At: at(1500)},
	)
	if !approx(a.Report().StartupTime, 0.9) {
		t.Errorf("StartupTime = %v, want 0.9", a.Report().StartupTime)
	}
	if got := len(a.Samples()); got != 0 {
		t.Errorf("Samples after finalize = %d, want 0", got)
	}
}

func TestAnalyzer_StallBeforeStartupIsNotBuffering(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Cold", nil, clk, DefaultOptions())
	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventWaiting, At: at(100)},
		Event{Kind: EventCanPlay, At: at(800)},
		Event{Kind: EventTimeUpdate, At: at(900), Position: 0.1},
		Event{Kind: EventEnded, At: at(2000)},
	)
	r := a.Report()
	if r.BufferingCount != 0 || r.BufferingDuration != 0 {
		t.Errorf("buffering = %d/%v, want 0/0", r.BufferingCount, r.BufferingDuration)
	}
}

func TestAnalyzer_OpenStallClosedAtFinalize(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Stuck", nil, clk, DefaultOptions())
	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(500), Position: 0.4},
		Event{Kind: EventWaiting, At: at(1000)},
		Event{Kind: EventEnded, At: at(3250)},
	)
	r := a.Report()
	if r.BufferingCount != 1 || !approx(r.BufferingDuration, 2.25) {
		t.Errorf("buffering = %d/%v, want 1/2.25", r.BufferingCount, r.BufferingDuration)
	}
}

func TestAnalyzer_CountDurationEquivalence(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Blip", nil, clk, DefaultOptions())
	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(300), Position: 0.2},
		Event{Kind: EventWaiting, At: at(1000)},
		Event{Kind: EventCanPlay, At: at(1001)},
		Event{Kind: EventEnded, At: at(2000)},
	)
	r := a.Report()
	if r.BufferingCount != 1 {
		t.Fatalf("BufferingCount = %d, want 1", r.BufferingCount)
	}
	if r.BufferingDuration <= 0 {
		t.Errorf("BufferingDuration = %v, want > 0 when a stall was counted", r.BufferingDuration)
	}

	b := New("Clean", nil, clk, DefaultOptions())
	mustHandle(t, b,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(300), Position: 0.2},
		Event{Kind: EventCanPlay, At: at(900)},
		Event{Kind: EventEnded, At: at(2000)},
	)
	if r := b.Report(); r.BufferingCount != 0 || r.BufferingDuration != 0 {
		t.Errorf("buffering = %d/%v, want 0/0", r.BufferingCount, r.BufferingDuration)
	}
}

func TestAnalyzer_ErrorAborts(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Broken", nil, clk, DefaultOptions())
	mustHandle(t, a,
		Event{Kind: EventPlayIntent, At: at(0)},
		Event{Kind: EventTimeUpdate, At: at(500), Position: 0.4},
	)

	cause := errors.New("MEDIA_ERR_DECODE")
	err := a.Handle(Event{Kind: EventError, At: at(700), Err: cause})
	if !errors.Is(err, ErrAnalysisAborted) || !errors.Is(err, cause) {
		t.Fatalf("Handle(error) = %v, want ErrAnalysisAborted wrapping cause", err)
	}
	if a.State() != StateDone {
		t.Errorf("State = %s, want done", a.State())
	}
	if r, first := a.Finalize(); r != nil || first {
		t.Errorf("Finalize after abort = %v, %v; want nil, false", r, first)
	}
}

func TestAnalyzer_FinalizeIdleYieldsNothing(t *testing.T) {
	t.Parallel()

	a := New("Idle", nil, testingclock.NewFakeClock(epoch), DefaultOptions())
	if r, first := a.Finalize(); r != nil || first {
		t.Errorf("Finalize idle = %v, %v; want nil, false", r, first)
	}
	if err := a.Start(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Start after finalize = %v, want ErrSessionClosed", err)
	}
}

func TestAnalyzer_FinalizeCapsAtWindowEnd(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	a := New("Slow", nil, clk, DefaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	clk.Step(30 * time.Second)
	r, _ := a.Finalize()
	if !approx(r.StartupTime, 10.0) {
		t.Errorf("StartupTime = %v, want capped 10.0", r.StartupTime)
	}
}

func TestParseEventKind(t *testing.T) {
	t.Parallel()

	for kind, name := range eventKindNames {
		got, err := ParseEventKind(" " + name + " ")
		if err != nil || got != kind {
			t.Errorf("ParseEventKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseEventKind("seeking"); err == nil {
		t.Error("ParseEventKind(seeking) succeeded, want error")
	}
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package analyzer turns the event stream of one playback attempt into one
// QualityReport.
//
// An Analyzer is a single-session state machine:
//
//	Idle ──play──▶ Armed ──progress>0──▶ Measuring
//	                 │                       │
//	                 └──ended / window───────┴──▶ Finalizing ──▶ Done
//	                 └──error────────────────────────────────────▶ Done (no report)
//
// It holds all timing state for the session and is never reused. Session
// drives an Analyzer from a channel of events with a cancellable analysis
// window, and Probe guards an element so sessions never interleave.
//
// Analyzer methods are not safe for concurrent use; they are meant to be
// called from one event loop.
package analyzer

import (
	"strings"
	"time"

	"k8s.io/utils/clock"

	"github.com/tomtom215/streamgauge/internal/models"
)

// Options tune the analyzer. Zero fields take the defaults.
type Options struct {
	// Window bounds a session, measured from the explicit play request.
	Window time.Duration

	// FreezeWallThreshold is the wall time an interval must exceed to be
	// a freeze candidate.
	FreezeWallThreshold time.Duration

	// FreezePositionThreshold is the playback advance, in seconds, below
	// which a candidate interval counts as frozen.
	FreezePositionThreshold float64

	// MinFreezeSamples is the fewest samples for which a freeze ratio is
	// computed at all.
	MinFreezeSamples int

	// FallbackResolution is reported when the element has no pixel height.
	FallbackResolution string
}

// DefaultOptions returns a 10 s window and the 500 ms / 0.1 s freeze rule.
func DefaultOptions() Options {
	return Options{
		Window:                  10 * time.Second,
		FreezeWallThreshold:     500 * time.Millisecond,
		FreezePositionThreshold: 0.1,
		MinFreezeSamples:        3,
		FallbackResolution:      "720p",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Window <= 0 {
		o.Window = d.Window
	}
	if o.FreezeWallThreshold <= 0 {
		o.FreezeWallThreshold = d.FreezeWallThreshold
	}
	if o.FreezePositionThreshold <= 0 {
		o.FreezePositionThreshold = d.FreezePositionThreshold
	}
	if o.MinFreezeSamples <= 0 {
		o.MinFreezeSamples = d.MinFreezeSamples
	}
	if strings.TrimSpace(o.FallbackResolution) == "" {
		o.FallbackResolution = d.FallbackResolution
	}
	return o
}

// minEpisodeSeconds is the smallest duration reported for a counted stall,
// so that a non-zero count never rounds to a zero duration.
const minEpisodeSeconds = 0.01

// Analyzer measures one playback session.
type Analyzer struct {
	name  string
	media MediaElement
	clock clock.PassiveClock
	opts  Options

	state       State
	requestedAt time.Time
	startup     time.Duration
	confirmed   bool
	expired     bool

	episodes []StallEpisode
	samples  []ProgressSample

	report *models.QualityReport
}

// New returns an Idle analyzer. media may be nil, in which case the
// fallback resolution is reported. An empty name becomes DefaultVideoName.
func New(name string, media MediaElement, clk clock.PassiveClock, opts Options) *Analyzer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultVideoName
	}
	return &Analyzer{
		name:  name,
		media: media,
		clock: clk,
		opts:  opts.withDefaults(),
		state: StateIdle,
	}
}

// State returns the current lifecycle state.
func (a *Analyzer) State() State {
	return a.state
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Started reports whether play has been requested.
func (a *Analyzer) Started() bool {
	return !a.requestedAt.IsZero()
}

// WindowEnd is the instant the analysis window elapses. Zero before Start.
func (a *Analyzer) WindowEnd() time.Time {
	if !a.Started() {
		return time.Time{}
	}
	return a.requestedAt.Add(a.opts.Window)
}

// Expired reports whether the session was finalized by the window elapsing.
func (a *Analyzer) Expired() bool {
	return a.expired
}

// Report returns the finalized report, or nil before finalization and
// after an abort.
func (a *Analyzer) Report() *models.QualityReport {
	return a.report
}

// Episodes returns a copy of the stall episodes seen so far.
func (a *Analyzer) Episodes() []StallEpisode {
	return append([]StallEpisode(nil), a.episodes...)
}

// Samples returns a copy of the progress samples seen so far.
func (a *Analyzer) Samples() []ProgressSample {
	return append([]ProgressSample(nil), a.samples...)
}

// Start records the play request and arms the session. Repeated requests
// while armed or measuring are ignored and never reset startup timing.
func (a *Analyzer) Start() error {
	return a.start(a.clock.Now())
}

func (a *Analyzer) start(at time.Time) error {
	switch a.state {
	case StateIdle:
		a.requestedAt = at
		a.state = StateArmed
		return nil
	case StateArmed, StateMeasuring:
		return nil
	default:
		return ErrSessionClosed
	}
}

// Handle applies one player signal. It returns ErrAnalysisAborted (wrapping
// the source error) on EventError and ErrSessionClosed once the session is
// done. Signals stamped at or after the window end finalize the session at
// the window end and are otherwise ignored.
func (a *Analyzer) Handle(ev Event) error {
	if a.state == StateDone || a.state == StateFinalizing {
		return ErrSessionClosed
	}

	at := ev.At
	if at.IsZero() {
		at = a.clock.Now()
	}

	if a.Started() && !at.Before(a.WindowEnd()) && ev.Kind != EventError {
		a.Expire()
		return nil
	}

	switch ev.Kind {
	case EventPlayIntent:
		return a.start(at)

	case EventTimeUpdate:
		a.progress(at, ev.Position, true)

	case EventPlaying:
		a.progress(at, ev.Position, false)

	case EventWaiting:
		if a.state == StateMeasuring && !a.stallOpen() {
			a.episodes = append(a.episodes, StallEpisode{StartedAt: at})
		}

	case EventCanPlay:
		a.closeStall(at)

	case EventEnded:
		if a.state != StateIdle {
			a.finalize(at)
		}

	case EventError:
		a.state = StateDone
		a.report = nil
		a.episodes = nil
		a.samples = nil
		return abortedError(ev.Err)
	}
	return nil
}

// progress records a progress observation. The first one with a positive
// position confirms playback and fixes startup time.
func (a *Analyzer) progress(at time.Time, position float64, sample bool) {
	if a.state != StateArmed && a.state != StateMeasuring {
		return
	}
	if sample {
		a.samples = append(a.samples, ProgressSample{WallClock: at, Position: position})
	}
	if !a.confirmed && position > 0 {
		a.confirmed = true
		a.startup = nonNegative(at.Sub(a.requestedAt))
		a.state = StateMeasuring
	}
}

func (a *Analyzer) stallOpen() bool {
	n := len(a.episodes)
	return n > 0 && a.episodes[n-1].Open()
}

func (a *Analyzer) closeStall(at time.Time) {
	if !a.stallOpen() {
		return
	}
	ep := &a.episodes[len(a.episodes)-1]
	if at.Before(ep.StartedAt) {
		at = ep.StartedAt
	}
	ep.EndedAt = at
}

// Expire finalizes at the window end. It has the same idempotency contract
// as Finalize.
func (a *Analyzer) Expire() (*models.QualityReport, bool) {
	if a.state != StateDone && a.state != StateFinalizing {
		a.expired = true
	}
	if !a.Started() {
		return a.finalize(a.clock.Now())
	}
	return a.finalize(a.WindowEnd())
}

// Finalize ends the session now. The first call computes and returns the
// report with true; later calls return the same report with false, so a
// caller that submits only on true submits at most once. Finalizing a
// session that was never started, or one that aborted, yields nil.
func (a *Analyzer) Finalize() (*models.QualityReport, bool) {
	now := a.clock.Now()
	if end := a.WindowEnd(); !end.IsZero() && now.After(end) {
		now = end
	}
	return a.finalize(now)
}

func (a *Analyzer) finalize(at time.Time) (*models.QualityReport, bool) {
	if a.state == StateDone || a.state == StateFinalizing {
		return a.report, false
	}
	if a.state == StateIdle {
		a.state = StateDone
		return nil, false
	}

	a.state = StateFinalizing
	a.closeStall(at)

	startup := a.startup
	if !a.confirmed {
		startup = nonNegative(at.Sub(a.requestedAt))
	}

	var stalled float64
	for _, ep := range a.episodes {
		stalled += max(ep.Duration().Seconds(), minEpisodeSeconds)
	}

	height := 0
	if a.media != nil {
		height = a.media.VideoHeight()
	}

	a.report = &models.QualityReport{
		VideoName:         a.name,
		StartupTime:       models.Round2(startup.Seconds()),
		BufferingCount:    len(a.episodes),
		BufferingDuration: models.Round2(stalled),
		AvgResolution:     ResolutionLabel(height, a.opts.FallbackResolution),
		FreezePercent:     models.Round2(FreezePercent(a.samples, a.opts)),
	}
	a.samples = nil
	a.state = StateDone
	return a.report, true
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

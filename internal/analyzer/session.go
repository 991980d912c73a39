// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package analyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/metrics"
	"github.com/tomtom215/streamgauge/internal/models"
	"github.com/tomtom215/streamgauge/internal/submitter"
)

// Session outcomes, also used as the analyzer_sessions_total label.
const (
	ResultEnded         = "ended"
	ResultWindowElapsed = "window_elapsed"
	ResultAborted       = "aborted"
	ResultCancelled     = "cancelled"
)

// Session is the event loop for one Analyzer. Events are handled one at a
// time on the goroutine calling Run, so the analyzer needs no locking.
type Session struct {
	analyzer *Analyzer
	clock    clock.Clock

	window  clock.Timer
	result  string
	ran     bool
	done    chan struct{}
	release func()
}

// NewSession wraps a fresh Analyzer. A nil clock means the real clock.
func NewSession(name string, media MediaElement, clk clock.Clock, opts Options) *Session {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Session{
		analyzer: New(name, media, clk, opts),
		clock:    clk,
		done:     make(chan struct{}),
	}
}

// Analyzer exposes the underlying state machine for inspection.
func (s *Session) Analyzer() *Analyzer {
	return s.analyzer
}

// Result reports how the session finished; empty while running.
func (s *Session) Result() string {
	return s.result
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run consumes events until the session finalizes.
//
// The analysis window starts with the first play request and is stopped
// early by end-of-session; both paths finalize the same way. A player error
// returns ErrAnalysisAborted and no report. Cancelling ctx or closing events
// finalizes at that instant; on cancellation the report is returned together
// with ctx.Err(). Run may be called once.
func (s *Session) Run(ctx context.Context, events <-chan Event) (*models.QualityReport, error) {
	if s.ran {
		return s.analyzer.Report(), ErrSessionClosed
	}
	s.ran = true
	defer s.finish()

	var windowC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			report, _ := s.analyzer.Finalize()
			s.result = ResultCancelled
			return report, ctx.Err()

		case <-windowC:
			report, _ := s.analyzer.Expire()
			s.result = ResultWindowElapsed
			return report, nil

		case ev, ok := <-events:
			if !ok {
				report, _ := s.analyzer.Finalize()
				s.result = s.closedResult()
				return report, nil
			}

			if err := s.analyzer.Handle(ev); err != nil {
				if errors.Is(err, ErrAnalysisAborted) {
					s.result = ResultAborted
					return nil, err
				}
				logging.Debug().Err(err).Str("event", ev.Kind.String()).Msg("Ignoring player event")
			}

			if windowC == nil && s.analyzer.Started() && s.analyzer.State() != StateDone {
				windowC = s.startWindow()
			}

			if s.analyzer.State() == StateDone {
				s.result = ResultEnded
				if s.analyzer.Expired() {
					s.result = ResultWindowElapsed
				}
				return s.analyzer.Report(), nil
			}
		}
	}
}

func (s *Session) startWindow() <-chan time.Time {
	remaining := s.analyzer.WindowEnd().Sub(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	s.window = s.clock.NewTimer(remaining)
	return s.window.C()
}

func (s *Session) closedResult() string {
	if s.analyzer.Expired() || (s.analyzer.Started() && !s.clock.Now().Before(s.analyzer.WindowEnd())) {
		return ResultWindowElapsed
	}
	return ResultEnded
}

func (s *Session) finish() {
	if s.window != nil {
		s.window.Stop()
	}
	if s.result != "" {
		metrics.AnalyzerSessions.WithLabelValues(s.result).Inc()
	}
	logging.Debug().
		Str("video_name", s.analyzer.name).
		Str("result", s.result).
		Msg("Analysis session finished")
	close(s.done)
	if s.release != nil {
		s.release()
	}
}

// Probe owns one playback element and allows a single active session on it.
type Probe struct {
	clock clock.Clock
	opts  Options

	mu     sync.Mutex
	active *Session
}

// NewProbe returns a Probe. A nil clock means the real clock.
func NewProbe(clk clock.Clock, opts Options) *Probe {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Probe{clock: clk, opts: opts.withDefaults()}
}

// Begin creates the next session on the element. It fails with
// ErrSessionActive while an earlier session has not finished running.
func (p *Probe) Begin(name string, media MediaElement) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		select {
		case <-p.active.Done():
		default:
			return nil, ErrSessionActive
		}
	}

	s := NewSession(name, media, p.clock, p.opts)
	s.release = func() {
		p.mu.Lock()
		if p.active == s {
			p.active = nil
		}
		p.mu.Unlock()
	}
	p.active = s
	return s, nil
}

// Measure runs one session to completion and submits its report exactly
// once. Aborted and cancelled sessions are not submitted; their error is
// returned instead.
func (p *Probe) Measure(ctx context.Context, name string, media MediaElement, events <-chan Event, sub submitter.Submitter) (*models.QualityReport, submitter.SubmissionResult, error) {
	s, err := p.Begin(name, media)
	if err != nil {
		return nil, submitter.SubmissionResult{}, err
	}

	report, err := s.Run(ctx, events)
	if err != nil {
		return report, submitter.SubmissionResult{}, err
	}
	if report == nil {
		return nil, submitter.SubmissionResult{}, nil
	}

	result := sub.Submit(ctx, report)
	log := logging.Ctx(ctx).With().Str("video_name", report.VideoName).Logger()
	if result.OK() {
		log.Info().Int64("id", result.ID).Msg("Quality report submitted")
	} else {
		log.Warn().Err(result.Err).Msg("Quality report submission failed")
	}
	return report, result, nil
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package submitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/models"
)

// SubmitPath is the ingestion endpoint, relative to the server base URL.
const SubmitPath = "/api/videos/add"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPConfig configures an HTTPSubmitter.
type HTTPConfig struct {
	// BaseURL of the ingestion server, e.g. http://localhost:5000.
	BaseURL string
	// Timeout for the single attempt. Zero means 10 s.
	Timeout time.Duration
	// Client overrides the HTTP client; its Timeout is left untouched.
	Client *http.Client
	// Breaker tunes the circuit. Zero value means DefaultBreakerSettings.
	Breaker BreakerSettings
	// BreakerName labels breaker metrics. Defaults to "ingest-submit".
	BreakerName string
}

// HTTPSubmitter posts reports to a remote ingestion service.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	breaker  *breaker
}

// submitResponse is the body of the submit endpoint. The receipt sits at
// the top level. The data envelope is read when the top level carries no id.
// error is either a short label (submit endpoint) or an object (middleware
// envelopes such as rate limiting).
type submitResponse struct {
	Success       bool            `json:"success"`
	ID            int64           `json:"id"`
	TestTimestamp time.Time       `json:"test_timestamp"`
	Message       string          `json:"message"`
	Code          string          `json:"code"`
	Error         json.RawMessage `json:"error,omitempty"`
	Data          *struct {
		ID            int64     `json:"id"`
		TestTimestamp time.Time `json:"test_timestamp"`
	} `json:"data,omitempty"`
}

func (r *submitResponse) receipt() (int64, time.Time) {
	if r.ID > 0 {
		return r.ID, r.TestTimestamp
	}
	if r.Data != nil {
		return r.Data.ID, r.Data.TestTimestamp
	}
	return 0, time.Time{}
}

func (r *submitResponse) failed() bool {
	return len(r.Error) > 0 && string(r.Error) != "null"
}

// rejection returns the machine code and message of an error body.
func (r *submitResponse) rejection() (code, message string) {
	code, message = r.Code, r.Message
	if !r.failed() {
		return code, message
	}
	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var label string
	switch {
	case json.Unmarshal(r.Error, &nested) == nil:
		if code == "" {
			code = nested.Code
		}
		if message == "" {
			message = nested.Message
		}
	case json.Unmarshal(r.Error, &label) == nil:
		if message == "" {
			message = label
		}
	}
	return code, message
}

// NewHTTPSubmitter validates cfg and returns a submitter.
func NewHTTPSubmitter(cfg HTTPConfig) (*HTTPSubmitter, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("submitter: base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("submitter: base URL %q must use http or https", cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	settings := cfg.Breaker
	if settings == (BreakerSettings{}) {
		settings = DefaultBreakerSettings()
	}
	name := cfg.BreakerName
	if name == "" {
		name = "ingest-submit"
	}

	return &HTTPSubmitter{
		endpoint: base + SubmitPath,
		client:   client,
		breaker:  newBreaker(name, settings),
	}, nil
}

// Endpoint returns the full submit URL.
func (s *HTTPSubmitter) Endpoint() string {
	return s.endpoint
}

// BreakerState returns the circuit state as "closed", "half-open" or "open".
func (s *HTTPSubmitter) BreakerState() string {
	return stateToString(s.breaker.state())
}

// Submit implements Submitter with exactly one POST.
func (s *HTTPSubmitter) Submit(ctx context.Context, report *models.QualityReport) SubmissionResult {
	if report == nil {
		return SubmissionResult{Err: errors.New("submit report: nil report")}
	}

	body, err := json.Marshal(models.NewSubmitReportRequest(report))
	if err != nil {
		return SubmissionResult{Err: fmt.Errorf("submit report: encode: %w", err)}
	}

	resp, err := s.breaker.execute(func() (*submitResponse, error) {
		return s.post(ctx, body)
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("endpoint", s.endpoint).Msg("Report submission failed")
		return SubmissionResult{Err: err}
	}
	id, ts := resp.receipt()
	return SubmissionResult{ID: id, Timestamp: ts}
}

func (s *HTTPSubmitter) post(ctx context.Context, body []byte) (*submitResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post", Err: err}
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	var envelope submitResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &TransportError{
			Op:  "decode response",
			Err: fmt.Errorf("status %d: %w", httpResp.StatusCode, err),
		}
	}

	if httpResp.StatusCode >= http.StatusBadRequest || envelope.failed() {
		rejected := &RejectedError{Status: httpResp.StatusCode}
		rejected.Code, rejected.Message = envelope.rejection()
		if rejected.Message == "" {
			rejected.Message = http.StatusText(httpResp.StatusCode)
		}
		return nil, rejected
	}

	if id, _ := envelope.receipt(); id <= 0 {
		return nil, &TransportError{Op: "decode response", Err: errors.New("response carries no id")}
	}
	return &envelope, nil
}

// IsBreakerOpen reports whether err came from an open circuit.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

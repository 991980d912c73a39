// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamgauge/internal/models"
)

// apiClient reads from the ingestion server.
type apiClient struct {
	base   string
	client *http.Client
}

func newAPIClient(base string, timeout time.Duration) (*apiClient, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("server URL %q must use http or https", base)
	}
	return &apiClient{base: base, client: &http.Client{Timeout: timeout}}, nil
}

// envelope is the server response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// apiError is a non-success envelope.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *apiClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

func (c *apiClient) getEnvelope(ctx context.Context, path string, out any) error {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode %s (status %d): %w", path, status, err)
	}
	if !env.Success {
		e := &apiError{Status: status, Code: "UNKNOWN", Message: http.StatusText(status)}
		if env.Error != nil {
			e.Code, e.Message = env.Error.Code, env.Error.Message
		}
		return e
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// listReports fetches stored reports, newest first.
func (c *apiClient) listReports(ctx context.Context) ([]models.QualityReport, error) {
	var reports []models.QualityReport
	if err := c.getEnvelope(ctx, "/api/videos", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// liveness is the raw body of /api/health.
type liveness struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// readiness is the data of /api/health/ready.
type readiness struct {
	DatabaseConnected bool    `json:"database_connected"`
	LiveSubscribers   int     `json:"live_subscribers"`
	Uptime            float64 `json:"uptime_seconds"`
}

func (c *apiClient) health(ctx context.Context) (*liveness, error) {
	status, body, err := c.get(ctx, "/api/health")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apiError{Status: status, Code: "UNHEALTHY", Message: strings.TrimSpace(string(body))}
	}
	var l liveness
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &l, nil
}

func (c *apiClient) ready(ctx context.Context) (*readiness, error) {
	var r readiness
	if err := c.getEnvelope(ctx, "/api/health/ready", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func isAPIError(err error) bool {
	var e *apiError
	return errors.As(err, &e)
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/streamgauge/internal/models"
)

func validReport() models.QualityReport {
	return models.QualityReport{
		VideoName:         "Sample",
		StartupTime:       1.23,
		BufferingCount:    2,
		BufferingDuration: 0.8,
		AvgResolution:     "1080p",
		FreezePercent:     3.45,
	}
}

func TestValidateStruct_QualityReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*models.QualityReport)
		wantField string
		wantTag   string
	}{
		{"valid", func(*models.QualityReport) {}, "", ""},
		{"empty name", func(r *models.QualityReport) { r.VideoName = "" }, "video_name", "required"},
		{"long name", func(r *models.QualityReport) { r.VideoName = strings.Repeat("v", 256) }, "video_name", "max"},
		{"negative startup", func(r *models.QualityReport) { r.StartupTime = -0.01 }, "startup_time", "gte"},
		{"nan startup", func(r *models.QualityReport) { r.StartupTime = math.NaN() }, "startup_time", "finite"},
		{"inf duration", func(r *models.QualityReport) { r.BufferingDuration = math.Inf(1) }, "buffering_duration", "finite"},
		{"negative count", func(r *models.QualityReport) { r.BufferingCount = -1 }, "buffering_count", "gte"},
		{"freeze over 100", func(r *models.QualityReport) { r.FreezePercent = 100.01 }, "freeze_percent", "lte"},
		{"freeze exactly 100", func(r *models.QualityReport) { r.FreezePercent = 100 }, "", ""},
		{"missing resolution", func(r *models.QualityReport) { r.AvgResolution = "" }, "avg_resolution", "required"},
		{"duration without stalls", func(r *models.QualityReport) {
			r.BufferingCount = 0
			r.BufferingDuration = 0.5
		}, "buffering_duration", "zero_without_stalls"},
		{"no stalls no duration", func(r *models.QualityReport) {
			r.BufferingCount = 0
			r.BufferingDuration = 0
		}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validReport()
			tt.mutate(&r)
			verr := ValidateStruct(&r)

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("expected no error, got %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected error on %s, got nil", tt.wantField)
			}
			found := false
			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s/%s in %v", tt.wantField, tt.wantTag, verr)
			}
		})
	}
}

func TestValidateStruct_SubmitRequestRequiresFields(t *testing.T) {
	t.Parallel()

	name := "Sample"
	req := models.SubmitReportRequest{VideoName: &name}

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected missing numeric fields to fail")
	}
	missing := map[string]bool{}
	for _, e := range verr.Errors() {
		if e.Tag() == "required" {
			missing[e.Field()] = true
		}
	}
	for _, field := range []string{"startup_time", "buffering_count", "buffering_duration", "avg_resolution", "freeze_percent"} {
		if !missing[field] {
			t.Errorf("expected %s to be reported missing", field)
		}
	}
	if missing["video_name"] {
		t.Error("video_name is present and should not be reported")
	}
}

func TestValidateStruct_ZeroValuesArePresent(t *testing.T) {
	t.Parallel()

	report := validReport()
	report.StartupTime = 0
	report.BufferingCount = 0
	report.BufferingDuration = 0
	report.FreezePercent = 0
	req := models.NewSubmitReportRequest(&report)

	if verr := ValidateStruct(req); verr != nil {
		t.Errorf("zero numeric values must count as present, got %v", verr)
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := NewRequestValidationError("video_name", "required", "video_name is required").ToAPIError()
	if single.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", single.Code)
	}
	if single.Details["field"] != "video_name" {
		t.Errorf("Details[field] = %v, want video_name", single.Details["field"])
	}

	r := validReport()
	r.VideoName = ""
	r.FreezePercent = 200
	multi := ValidateStruct(&r).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field entries, got %#v", multi.Details)
	}
	if !strings.Contains(multi.Message, "video_name is required") {
		t.Errorf("Message = %q, want mention of video_name", multi.Message)
	}
}

// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package eventprocessor

import (
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/streamgauge/internal/models"
)

// Message metadata keys.
const (
	MetadataOrigin      = "origin"
	MetadataContentType = "content_type"
)

// NewResultMessage wraps a stored report for relaying. The report id is the
// message UUID and the JSON report is the payload.
func NewResultMessage(r *models.QualityReport, origin string) (*message.Message, error) {
	if r == nil || r.ID <= 0 {
		return nil, fmt.Errorf("%w: report has no id", ErrInvalidMessage)
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report %d: %w", r.ID, err)
	}

	msg := message.NewMessage(strconv.FormatInt(r.ID, 10), payload)
	msg.Metadata.Set(MetadataOrigin, origin)
	msg.Metadata.Set(MetadataContentType, "application/json")
	return msg, nil
}

// DecodeResultMessage reverses NewResultMessage.
func DecodeResultMessage(msg *message.Message) (*models.QualityReport, error) {
	var r models.QualityReport
	if err := json.Unmarshal(msg.Payload, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if r.ID <= 0 {
		return nil, fmt.Errorf("%w: report has no id", ErrInvalidMessage)
	}
	return &r, nil
}

// IsOwnMessage reports whether msg was published by instance.
func IsOwnMessage(msg *message.Message, instance string) bool {
	return instance != "" && msg.Metadata.Get(MetadataOrigin) == instance
}

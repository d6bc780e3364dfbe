// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds all telemetry data of one processed key.
type TelemetryData struct {
	// Key is the processed remote object key
	Key string `json:"key"`

	// DownloadedBytes is the size of the downloaded object
	DownloadedBytes int64 `json:"downloaded_bytes"`

	// ContentMismatches is the number of image entries with non-image content
	ContentMismatches int64 `json:"content_mismatches"`

	// Duration is the time it took to process the key
	Duration time.Duration `json:"duration"`

	// ExtractedImages is the number of written images
	ExtractedImages int64 `json:"extracted_images"`

	// ExtractionErrors is the number of errors while processing the key
	ExtractionErrors int64 `json:"extraction_errors"`

	// ExtractionSize is the number of bytes written to the output directory
	ExtractionSize int64 `json:"extraction_size"`

	// IgnoredEntries is the number of entries that are neither images nor archives
	IgnoredEntries int64 `json:"ignored_entries"`

	// LastExtractionError is the last error while processing the key
	LastExtractionError error `json:"last_extraction_error"`

	// NestedArchives is the number of walked nested archives
	NestedArchives int64 `json:"nested_archives"`

	// OversizedImages is the number of skipped images above the size limit
	OversizedImages int64 `json:"oversized_images"`
}

// String returns a string representation of [TelemetryData].
func (td TelemetryData) String() string {
	b, _ := json.Marshal(td)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (td TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if td.LastExtractionError != nil {
		lastError = td.LastExtractionError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastExtractionError string `json:"last_extraction_error"`
		*Alias
	}{
		LastExtractionError: lastError,
		Alias:               (*Alias)(&td),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after a key has been processed.
type TelemetryHook func(context.Context, *TelemetryData)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureDuration captures the processing duration
func captureDuration(td *TelemetryData, start time.Time) {
	td.Duration = now().Sub(start)
}

// captureError increases the error counter and keeps err as last error
func captureError(td *TelemetryData, err error) {
	td.ExtractionErrors++
	td.LastExtractionError = err
}

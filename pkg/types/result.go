// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and record types shared between the
// converter packages and the CLI.
package types

import "time"

// ConversionStatus indicates the outcome of converting a single file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// FileResult records what happened to one source file.
type FileResult struct {
	// Source is the path of the WebP input.
	Source string `json:"source" yaml:"source"`

	// Destination is the path of the PNG output.
	Destination string `json:"destination" yaml:"destination"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	SourceBytes int64 `json:"source_bytes,omitempty" yaml:"source_bytes,omitempty"`
	OutputBytes int64 `json:"output_bytes,omitempty" yaml:"output_bytes,omitempty"`
	Width       int   `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int   `json:"height,omitempty" yaml:"height,omitempty"`

	// HadAlpha reports whether the source was composited onto the background.
	HadAlpha bool `json:"had_alpha,omitempty" yaml:"had_alpha,omitempty"`

	// Deleted reports whether the source was removed after the write.
	Deleted bool `json:"deleted,omitempty" yaml:"deleted,omitempty"`

	// Warnings lists non-fatal problems (failed delete, failed optimizer pass).
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}

// Failed reports whether the conversion failed.
func (r FileResult) Failed() bool {
	return r.Status == ConversionFailed
}

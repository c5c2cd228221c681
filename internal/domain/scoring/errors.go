// Package scoring implements the transcript scoring engine.
package scoring

import "errors"

// Sentinel kinds for scoring errors. These allow errors.Is/As from callers.
var (
	// ErrInsufficientInput marks a transcript below the minimum word count.
	// The engine refuses to produce a degraded score for near-empty input.
	ErrInsufficientInput = errors.New("transcript below minimum word count")

	// ErrTranscriptTooLong marks a transcript above the maximum word count.
	ErrTranscriptTooLong = errors.New("transcript above maximum word count")
)

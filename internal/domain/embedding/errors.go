package embedding

import "errors"

// Sentinel kinds for embedding errors. These allow errors.Is/As from callers.
var (
	// ErrUnavailable marks a failed embedding computation. The engine never
	// substitutes a default vector; callers decide how to degrade.
	ErrUnavailable = errors.New("embedding unavailable")

	// ErrNotReady marks a provider that has not finished initializing.
	ErrNotReady = errors.New("embedding provider not ready")
)

package rubricfile

import "errors"

// Sentinel kinds for rubric loading errors.
var (
	// ErrLoad marks a malformed rubric source. Fatal at startup: the process
	// must not serve requests with a partially loaded rubric.
	ErrLoad = errors.New("rubric load failed")
)

package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("scoring temporarily unavailable")
	ErrInternal    = errors.New("internal error")
)

// Package rubric defines the immutable rubric a transcript is judged against.
package rubric

import "errors"

// Sentinel kinds for rubric validation errors. These allow errors.Is/As from callers.
var (
	ErrEmptyRubric      = errors.New("rubric has no criteria")
	ErrInvalidCriterion = errors.New("invalid criterion")
	ErrDuplicateName    = errors.New("duplicate criterion name")
	ErrInvalidWeight    = errors.New("criterion weight must be positive")
	ErrInvalidBounds    = errors.New("criterion word bounds are inverted")
)

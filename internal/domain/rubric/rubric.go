// Package rubric defines the immutable rubric a transcript is judged against.
package rubric

import (
	"fmt"

	"github.com/talklens/talklens/internal/domain/model"
)

// Criterion is one scored dimension of the rubric.
type Criterion struct {
	Name             string
	Weight           float64
	RequiredKeywords []string
	OptionalKeywords []string
	// MinWords/MaxWords bound the expected transcript length for this
	// criterion. Zero means no limit on that side.
	MinWords    int
	MaxWords    int
	Description string
}

// ClassifyWordCount classifies a transcript word count against the
// criterion's bounds. Counts equal to a bound are within range.
func (c Criterion) ClassifyWordCount(words int) model.WordCountStatus {
	switch {
	case c.MinWords <= 0 && c.MaxWords <= 0:
		return model.WordCountNoLimit
	case c.MinWords > 0 && words < c.MinWords:
		return model.WordCountTooShort
	case c.MaxWords > 0 && words > c.MaxWords:
		return model.WordCountTooLong
	default:
		return model.WordCountWithinRange
	}
}

// Rubric is an ordered, validated, immutable set of criteria. It is safe to
// share across concurrent scoring requests after construction.
type Rubric struct {
	criteria    []Criterion
	totalWeight float64
}

// New validates the criteria and builds a Rubric. Order is preserved.
func New(criteria []Criterion) (*Rubric, error) {
	if len(criteria) == 0 {
		return nil, ErrEmptyRubric
	}

	seen := make(map[string]struct{}, len(criteria))
	total := 0.0
	for _, c := range criteria {
		if c.Name == "" {
			return nil, fmt.Errorf("criterion with empty name: %w", ErrInvalidCriterion)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("criterion %q: %w", c.Name, ErrDuplicateName)
		}
		seen[c.Name] = struct{}{}
		if c.Weight <= 0 {
			return nil, fmt.Errorf("criterion %q has weight %v: %w", c.Name, c.Weight, ErrInvalidWeight)
		}
		if c.MinWords > 0 && c.MaxWords > 0 && c.MinWords > c.MaxWords {
			return nil, fmt.Errorf("criterion %q has min_words %d > max_words %d: %w",
				c.Name, c.MinWords, c.MaxWords, ErrInvalidBounds)
		}
		total += c.Weight
	}

	owned := make([]Criterion, len(criteria))
	copy(owned, criteria)
	return &Rubric{criteria: owned, totalWeight: total}, nil
}

// Criteria returns the criteria in rubric order. Callers must not modify the
// returned slice.
func (r *Rubric) Criteria() []Criterion {
	return r.criteria
}

// Len returns the number of criteria.
func (r *Rubric) Len() int {
	return len(r.criteria)
}

// TotalWeight returns the sum of all criterion weights. Weights need not sum
// to 100; aggregation renormalizes by this value.
func (r *Rubric) TotalWeight() float64 {
	return r.totalWeight
}

// Info summarizes the rubric for read-only consumers.
func (r *Rubric) Info() model.RubricInfo {
	info := model.RubricInfo{
		CriteriaCount: len(r.criteria),
		TotalWeight:   r.totalWeight,
		Criteria:      make([]model.CriterionInfo, len(r.criteria)),
	}
	for i, c := range r.criteria {
		info.Criteria[i] = model.CriterionInfo{
			Name:             c.Name,
			Weight:           c.Weight,
			RequiredKeywords: len(c.RequiredKeywords),
			OptionalKeywords: len(c.OptionalKeywords),
		}
	}
	return info
}

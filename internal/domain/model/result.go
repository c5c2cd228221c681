// Package model contains domain models passed between layers.
package model

import "time"

// WordCountStatus classifies a transcript's length against a criterion's bounds.
type WordCountStatus string

// Word count classifications.
const (
	WordCountWithinRange WordCountStatus = "within_range"
	WordCountTooShort    WordCountStatus = "too_short"
	WordCountTooLong     WordCountStatus = "too_long"
	WordCountNoLimit     WordCountStatus = "no_limit"
)

// Breakdown carries the three sub-scores behind a criterion's final score.
type Breakdown struct {
	RuleBased    float64 `json:"rule_based"`
	Semantic     float64 `json:"semantic"`
	RubricDriven float64 `json:"rubric_driven"`
}

// CriterionScore is the per-criterion outcome of a scoring call.
type CriterionScore struct {
	Criterion          string          `json:"criterion"`
	Score              float64         `json:"score"`
	Weight             float64         `json:"weight"`
	KeywordsFound      []string        `json:"keywords_found"`
	KeywordsMissing    []string        `json:"keywords_missing"`
	SemanticSimilarity float64         `json:"semantic_similarity"`
	WordCountStatus    WordCountStatus `json:"word_count_status"`
	Feedback           string          `json:"feedback"`
	Breakdown          Breakdown       `json:"score_breakdown"`
}

// ScoringResult is the outcome of scoring one transcript against the rubric.
// It is created fresh per scoring call and never mutated afterwards.
type ScoringResult struct {
	OverallScore   float64          `json:"overall_score"`
	Category       string           `json:"score_category"`
	WordCount      int              `json:"word_count"`
	CriteriaScores []CriterionScore `json:"criteria_scores"`
	Timestamp      time.Time        `json:"timestamp"`
	// Degraded marks results produced without the semantic sub-score after
	// an explicit caller opt-in; it is never set silently.
	Degraded bool `json:"degraded"`
}

// Sample is a bundled example transcript with its expected score range.
type Sample struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Transcript  string  `json:"transcript" yaml:"transcript"`
	ExpectedMin float64 `json:"expected_min" yaml:"expected_min"`
	ExpectedMax float64 `json:"expected_max" yaml:"expected_max"`
}

// CriterionInfo summarizes one rubric criterion for the info endpoint.
type CriterionInfo struct {
	Name             string  `json:"name"`
	Weight           float64 `json:"weight"`
	RequiredKeywords int     `json:"required_keywords"`
	OptionalKeywords int     `json:"optional_keywords"`
}

// RubricInfo summarizes the loaded rubric.
type RubricInfo struct {
	CriteriaCount int             `json:"criteria_count"`
	TotalWeight   float64         `json:"total_weight"`
	Criteria      []CriterionInfo `json:"criteria"`
}

package scoring

import (
	"fmt"
	"strings"

	"github.com/talklens/talklens/internal/domain/model"
)

// Score bands for feedback selection.
const (
	bandExcellent = 90.0
	bandGood      = 70.0
	bandFair      = 50.0

	maxNamedMissing = 3
)

// scoreCategory labels an overall score with its performance band.
func scoreCategory(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Satisfactory"
	case score >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// buildFeedback derives the feedback string for a criterion. Selection is
// purely template-driven: identical inputs always produce identical text.
func buildFeedback(score float64, missing []string, status model.WordCountStatus, wordCount, minWords, maxWords int) string {
	parts := make([]string, 0, 3)

	switch {
	case score >= bandExcellent:
		parts = append(parts, "Excellent coverage of this criterion.")
	case score >= bandGood:
		parts = append(parts, "Good coverage of this criterion.")
	case score >= bandFair:
		parts = append(parts, "Fair coverage; there is room to improve.")
	default:
		parts = append(parts, "Needs improvement on this criterion.")
	}

	switch {
	case len(missing) == 0:
		// Nothing to call out.
	case len(missing) <= maxNamedMissing:
		parts = append(parts, fmt.Sprintf("Consider including: %s.", strings.Join(missing, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Missing %d expected keywords.", len(missing)))
	}

	switch status {
	case model.WordCountTooShort:
		parts = append(parts, fmt.Sprintf("Response is brief (%d words); aim for at least %d.", wordCount, minWords))
	case model.WordCountTooLong:
		parts = append(parts, fmt.Sprintf("Response is long (%d words); try to stay under %d.", wordCount, maxWords))
	case model.WordCountWithinRange:
		parts = append(parts, fmt.Sprintf("Good length (%d words).", wordCount))
	case model.WordCountNoLimit:
		// No length expectation for this criterion.
	}

	return strings.Join(parts, " ")
}

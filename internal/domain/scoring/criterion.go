package scoring

import (
	"strings"

	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/internal/domain/rubric"
	"github.com/talklens/talklens/internal/domain/text"
)

// Rule-based sub-score composition constants.
const (
	requiredPortion = 80.0 // share of the rule-based base driven by required keywords
	optionalPortion = 20.0 // ceiling bonus driven by optional keywords

	// neutralRequired is granted when a criterion defines no required
	// keywords, so keyword-free criteria are judged on length and phrasing
	// rather than an unearnable keyword component.
	neutralRequired = requiredPortion / 2
)

// scoreCriterion computes the full per-criterion result. It is a pure
// function of the prepared transcript and the criterion; sim carries the
// precomputed cosine similarity, or nil in degraded mode.
func (e *Engine) scoreCriterion(c rubric.Criterion, in input, sim *float64) model.CriterionScore {
	status := c.ClassifyWordCount(in.wordCount)
	ruleScore, found, missing := e.ruleBasedScore(c, in, status)

	weightShare := c.Weight / e.rubric.TotalWeight() * maxScoreValue

	var semanticScore, similarity, final float64
	var breakdown model.Breakdown
	if sim != nil {
		similarity = *sim
		semanticScore = (similarity + 1) / 2 * maxScoreValue
		rubricScore := 0.5*((ruleScore+semanticScore)/2) + 0.5*weightShare
		final = clamp(ruleScore*ruleWeight + semanticScore*semanticWeight + rubricScore*rubricWeight)
		breakdown = model.Breakdown{RuleBased: ruleScore, Semantic: semanticScore, RubricDriven: rubricScore}
	} else {
		// Degraded: the rule score stands in for the rule/semantic average
		// and the semantic term drops out of the final blend.
		rubricScore := 0.5*ruleScore + 0.5*weightShare
		final = clamp(ruleScore*(ruleWeight/(ruleWeight+rubricWeight)) +
			rubricScore*(rubricWeight/(ruleWeight+rubricWeight)))
		breakdown = model.Breakdown{RuleBased: ruleScore, RubricDriven: rubricScore}
	}

	return model.CriterionScore{
		Criterion:          c.Name,
		Score:              final,
		Weight:             c.Weight,
		KeywordsFound:      found,
		KeywordsMissing:    missing,
		SemanticSimilarity: similarity,
		WordCountStatus:    status,
		Feedback:           buildFeedback(final, missing, status, in.wordCount, c.MinWords, c.MaxWords),
		Breakdown:          breakdown,
	}
}

// ruleBasedScore derives the keyword/word-count sub-score and the matched
// and missing keyword lists (required keywords first, rubric order kept).
func (e *Engine) ruleBasedScore(c rubric.Criterion, in input, status model.WordCountStatus) (float64, []string, []string) {
	found := make([]string, 0, len(c.RequiredKeywords)+len(c.OptionalKeywords))
	missing := make([]string, 0)

	requiredHits := 0
	for _, kw := range c.RequiredKeywords {
		if keywordPresent(in, kw) {
			requiredHits++
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	optionalHits := 0
	for _, kw := range c.OptionalKeywords {
		if keywordPresent(in, kw) {
			optionalHits++
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	base := neutralRequired
	if len(c.RequiredKeywords) > 0 {
		base = float64(requiredHits) / float64(len(c.RequiredKeywords)) * requiredPortion
	}
	// An empty optional set is vacuously satisfied; otherwise criteria with
	// only required keywords could never reach 100.
	optional := optionalPortion
	if len(c.OptionalKeywords) > 0 {
		optional = float64(optionalHits) / float64(len(c.OptionalKeywords)) * optionalPortion
	}
	score := clamp(base + optional)

	if status == model.WordCountTooShort || status == model.WordCountTooLong {
		score *= e.lengthPenalty
	}

	if phrasePresent(in, c.Description) {
		score = clamp(score + e.phraseBonus)
	}
	return score, found, missing
}

// keywordPresent matches single-word keywords against whole tokens and
// multi-word keywords as phrases, both case-insensitively.
func keywordPresent(in input, keyword string) bool {
	normalized := text.Normalize(keyword)
	if normalized == "" {
		return false
	}
	if !strings.Contains(normalized, " ") {
		_, ok := in.tokenSet[normalized]
		return ok
	}
	return text.ContainsPhrase(in.padded, normalized)
}

// phrasePresent reports a verbatim (case-insensitive, punctuation-ignoring)
// occurrence of the criterion description in the transcript.
func phrasePresent(in input, description string) bool {
	return text.ContainsPhrase(in.padded, description)
}

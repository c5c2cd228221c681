// Package scoring implements the transcript scoring engine. It combines a
// rule-based keyword sub-score, a semantic-similarity sub-score and a
// rubric-driven normalization term into one explainable 0-100 score per
// criterion, then aggregates a weighted mean over the rubric.
package scoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talklens/talklens/internal/domain/embedding"
	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/internal/domain/rubric"
	"github.com/talklens/talklens/internal/domain/text"
)

// Default engine configuration constants.
const (
	defaultMinTranscriptWords = 10
	defaultMaxTranscriptWords = 5000
	defaultLengthPenalty      = 0.85
	defaultPhraseBonus        = 5.0

	// Sub-score blend weights.
	ruleWeight     = 0.4
	semanticWeight = 0.4
	rubricWeight   = 0.2

	maxScoreValue = 100.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinWords sets the minimum transcript word count.
func WithMinWords(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minWords = n
		}
	}
}

// WithMaxWords sets the maximum transcript word count. Zero disables the cap.
func WithMaxWords(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxWords = n
		}
	}
}

// WithLengthPenalty sets the multiplier applied to the rule-based sub-score
// when the transcript falls outside a criterion's word-count envelope.
func WithLengthPenalty(p float64) Option {
	return func(e *Engine) {
		if p > 0 && p <= 1 {
			e.lengthPenalty = p
		}
	}
}

// WithPhraseBonus sets the bonus added when a criterion's description
// appears verbatim in the transcript.
func WithPhraseBonus(b float64) Option {
	return func(e *Engine) {
		if b >= 0 {
			e.phraseBonus = b
		}
	}
}

// WithParallelism bounds the number of criteria scored concurrently.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// Engine scores transcripts against an immutable rubric. It holds no mutable
// state after construction and is safe for concurrent use.
type Engine struct {
	rubric   *rubric.Rubric
	provider embedding.Provider

	// descVecs caches the description embedding of each criterion, indexed in
	// rubric order. Populated eagerly at construction, read-only afterwards.
	descVecs [][]float64

	minWords      int
	maxWords      int
	lengthPenalty float64
	phraseBonus   float64
	parallelism   int
}

// New builds an Engine over rubric r and embedding provider p. It verifies
// provider readiness and eagerly embeds every criterion description, so a
// constructed engine never races on first use.
func New(ctx context.Context, r *rubric.Rubric, p embedding.Provider, opts ...Option) (*Engine, error) {
	e := &Engine{
		rubric:        r,
		provider:      p,
		minWords:      defaultMinTranscriptWords,
		maxWords:      defaultMaxTranscriptWords,
		lengthPenalty: defaultLengthPenalty,
		phraseBonus:   defaultPhraseBonus,
		parallelism:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := p.Ready(ctx); err != nil {
		return nil, fmt.Errorf("embedding provider readiness: %w", err)
	}

	criteria := r.Criteria()
	e.descVecs = make([][]float64, len(criteria))
	for i, c := range criteria {
		vec, err := p.Embed(ctx, c.Description)
		if err != nil {
			return nil, fmt.Errorf("embed description of criterion %q: %w", c.Name, err)
		}
		e.descVecs[i] = vec
	}
	return e, nil
}

// Score computes a ScoringResult for transcript. It fails with
// ErrInsufficientInput or ErrTranscriptTooLong on length violations and
// surfaces embedding failures instead of silently zeroing the semantic term.
func (e *Engine) Score(ctx context.Context, transcript string) (model.ScoringResult, error) {
	in, err := e.prepare(transcript)
	if err != nil {
		return model.ScoringResult{}, err
	}

	tvec, err := e.provider.Embed(ctx, transcript)
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("embed transcript: %w", err)
	}

	criteria := e.rubric.Criteria()
	scores := make([]model.CriterionScore, len(criteria))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i := range criteria {
		g.Go(func() error {
			sim := embedding.Cosine(tvec, e.descVecs[i])
			scores[i] = e.scoreCriterion(criteria[i], in, &sim)
			return nil
		})
	}
	// Criterion scoring is a pure computation; the group only bounds fan-out.
	_ = g.Wait()

	overall := weightedMean(scores)
	return model.ScoringResult{
		OverallScore:   overall,
		Category:       scoreCategory(overall),
		WordCount:      in.wordCount,
		CriteriaScores: scores,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// ScoreDegraded computes a result without the semantic sub-score, for
// callers that explicitly opt into rule+rubric-only scoring after an
// embedding outage. The remaining sub-scores are renormalized (rule 2/3,
// rubric-driven 1/3) and the result is flagged as degraded.
func (e *Engine) ScoreDegraded(ctx context.Context, transcript string) (model.ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoringResult{}, err
	}
	in, err := e.prepare(transcript)
	if err != nil {
		return model.ScoringResult{}, err
	}

	criteria := e.rubric.Criteria()
	scores := make([]model.CriterionScore, len(criteria))
	for i := range criteria {
		scores[i] = e.scoreCriterion(criteria[i], in, nil)
	}

	overall := weightedMean(scores)
	return model.ScoringResult{
		OverallScore:   overall,
		Category:       scoreCategory(overall),
		WordCount:      in.wordCount,
		CriteriaScores: scores,
		Timestamp:      time.Now().UTC(),
		Degraded:       true,
	}, nil
}

// input carries the precomputed transcript views shared across criteria.
type input struct {
	padded    string // normalized transcript padded for phrase matching
	tokenSet  map[string]struct{}
	wordCount int
}

func (e *Engine) prepare(transcript string) (input, error) {
	tokens := text.Tokenize(transcript)
	n := len(tokens)
	if n < e.minWords {
		return input{}, fmt.Errorf("%d words, need at least %d: %w", n, e.minWords, ErrInsufficientInput)
	}
	if e.maxWords > 0 && n > e.maxWords {
		return input{}, fmt.Errorf("%d words, at most %d allowed: %w", n, e.maxWords, ErrTranscriptTooLong)
	}

	return input{
		padded:    " " + text.Normalize(transcript) + " ",
		tokenSet:  text.TokenSet(transcript),
		wordCount: n,
	}, nil
}

// weightedMean aggregates per-criterion final scores into the overall score,
// renormalizing by total weight so weights need not sum to 100.
func weightedMean(scores []model.CriterionScore) float64 {
	var sum, totalWeight float64
	for _, s := range scores {
		sum += s.Score * s.Weight
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return clamp(sum / totalWeight)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxScoreValue {
		return maxScoreValue
	}
	return v
}

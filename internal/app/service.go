// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talklens/talklens/internal/adapters/samples"
	"github.com/talklens/talklens/internal/domain/embedding"
	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/internal/domain/rubric"
	"github.com/talklens/talklens/internal/domain/scoring"
	"github.com/talklens/talklens/pkg/logger"
	"github.com/talklens/talklens/pkg/metrics"
)

// Service wires the rubric, the embedding provider and the scoring engine
// behind the HTTP API's dependency surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	rubric   *rubric.Rubric
	samples  *samples.Store
	provider embedding.Provider
	engine   *scoring.Engine

	// Configuration
	minWords         int
	maxWords         int
	lengthPenalty    float64
	phraseBonus      float64
	parallelism      int
	degradedFallback bool

	// State
	started        bool
	scoredTotal    atomic.Int64
	degradedTotal  atomic.Int64
	rejectedTotal  atomic.Int64
	lastOverall    atomic.Value // float64
	lastScoredUnix atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRubric sets the rubric scored against.
func WithRubric(r *rubric.Rubric) Option {
	return func(s *Service) {
		s.rubric = r
	}
}

// WithSamples sets the bundled sample-transcript store.
func WithSamples(st *samples.Store) Option {
	return func(s *Service) {
		s.samples = st
	}
}

// WithProvider sets the embedding provider backing the semantic sub-score.
func WithProvider(p embedding.Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// WithTranscriptBounds sets the accepted transcript word-count range.
// A zero max disables the upper bound.
func WithTranscriptBounds(minWords, maxWords int) Option {
	return func(s *Service) {
		if minWords > 0 {
			s.minWords = minWords
		}
		if maxWords >= 0 {
			s.maxWords = maxWords
		}
	}
}

// WithLengthPenalty sets the rule-based penalty multiplier for transcripts
// outside a criterion's word-count envelope.
func WithLengthPenalty(p float64) Option {
	return func(s *Service) {
		if p > 0 && p <= 1 {
			s.lengthPenalty = p
		}
	}
}

// WithPhraseBonus sets the bonus for verbatim criterion descriptions.
func WithPhraseBonus(b float64) Option {
	return func(s *Service) {
		if b >= 0 {
			s.phraseBonus = b
		}
	}
}

// WithParallelism bounds concurrent per-criterion scoring.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithDegradedFallback opts into rule+rubric-only rescoring when the
// embedding provider fails after startup. Off by default.
func WithDegradedFallback(enabled bool) Option {
	return func(s *Service) {
		s.degradedFallback = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		minWords:      10,
		maxWords:      5000,
		lengthPenalty: 0.85,
		phraseBonus:   5,
		parallelism:   runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the scoring engine, which verifies provider readiness and
// warms the criterion-description embeddings.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.rubric == nil {
		return errors.New("service requires a rubric")
	}
	if s.provider == nil {
		return errors.New("service requires an embedding provider")
	}
	if s.samples == nil {
		st, err := samples.Load("")
		if err != nil {
			return err
		}
		s.samples = st
	}

	s.logger.Info(ctx, "starting scoring service...")

	engine, err := scoring.New(ctx, s.rubric, s.provider,
		scoring.WithMinWords(s.minWords),
		scoring.WithMaxWords(s.maxWords),
		scoring.WithLengthPenalty(s.lengthPenalty),
		scoring.WithPhraseBonus(s.phraseBonus),
		scoring.WithParallelism(s.parallelism),
	)
	if err != nil {
		return err
	}
	s.engine = engine
	s.started = true

	metrics.UpdateRubricCriteria(s.rubric.Len())
	s.logger.Info(ctx, "scoring service started",
		logger.Int("criteria", s.rubric.Len()),
		logger.Float64("totalWeight", s.rubric.TotalWeight()),
		logger.Int("samples", s.samples.Len()),
		logger.Bool("degradedFallback", s.degradedFallback),
	)
	return nil
}

// Stop marks the service stopped. The engine holds no background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// Score runs the full scoring pipeline for one transcript. When the
// embedding provider fails mid-flight and degraded fallback is enabled,
// it rescores without the semantic term and flags the result.
func (s *Service) Score(ctx context.Context, transcript string) (model.ScoringResult, error) {
	s.mu.RLock()
	engine := s.engine
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.ScoringResult{}, errors.New("service not started")
	}

	metrics.RecordScoringRequest()
	start := time.Now()

	result, err := engine.Score(ctx, transcript)
	if err != nil {
		if s.degradedFallback && errors.Is(err, embedding.ErrUnavailable) {
			s.logger.Warn(ctx, "embedding provider unavailable, scoring degraded",
				logger.Error(err),
			)
			result, err = engine.ScoreDegraded(ctx, transcript)
		}
		if err != nil {
			s.recordFailure(err)
			return model.ScoringResult{}, err
		}
	}

	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordOverallScore(result.OverallScore)
	if result.Degraded {
		metrics.RecordDegradedScore()
		s.degradedTotal.Add(1)
	}
	s.scoredTotal.Add(1)
	s.lastOverall.Store(result.OverallScore)
	s.lastScoredUnix.Store(result.Timestamp.Unix())

	s.logger.Debug(ctx, "transcript scored",
		logger.Float64("overall", result.OverallScore),
		logger.Int("words", result.WordCount),
		logger.Bool("degraded", result.Degraded),
	)
	return result, nil
}

func (s *Service) recordFailure(err error) {
	switch {
	case errors.Is(err, scoring.ErrInsufficientInput), errors.Is(err, scoring.ErrTranscriptTooLong):
		s.rejectedTotal.Add(1)
		metrics.RecordScoringError("input")
	case errors.Is(err, embedding.ErrUnavailable), errors.Is(err, embedding.ErrNotReady):
		metrics.RecordScoringError("embedding")
	default:
		metrics.RecordScoringError("internal")
	}
}

// Samples returns the bundled sample transcripts.
func (s *Service) Samples(ctx context.Context) []model.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.samples == nil {
		return nil
	}
	return s.samples.All()
}

// RubricInfo summarizes the loaded rubric.
func (s *Service) RubricInfo(ctx context.Context) model.RubricInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rubric == nil {
		return model.RubricInfo{}
	}
	return s.rubric.Info()
}

// Ready reports whether the service can serve scoring requests.
func (s *Service) Ready(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	provider := s.provider
	s.mu.RUnlock()
	if !started {
		return errors.New("service not started")
	}
	return provider.Ready(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"parallelism":      s.parallelism,
		"degradedFallback": s.degradedFallback,
		"scoredTotal":      s.scoredTotal.Load(),
		"degradedTotal":    s.degradedTotal.Load(),
		"rejectedTotal":    s.rejectedTotal.Load(),
	}

	if s.rubric != nil {
		stats["criteria"] = s.rubric.Len()
		stats["totalWeight"] = s.rubric.TotalWeight()
	}
	if s.samples != nil {
		stats["samples"] = s.samples.Len()
	}
	if v, ok := s.lastOverall.Load().(float64); ok {
		stats["lastOverallScore"] = v
		stats["lastScoredAt"] = time.Unix(s.lastScoredUnix.Load(), 0).UTC().Format(time.RFC3339)
	}
	return stats
}

package scoreclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talklens/talklens/internal/domain/model"
	"github.com/talklens/talklens/pkg/logger"
)

// Run executes the complete sample verification flow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	runID := uuid.NewString()

	logger.Get().Info(ctx, "starting talklens sample verification",
		logger.String("runID", runID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := client.checkHealth(ctx, config.BaseURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")

	// Step 2: Fetch sample transcripts
	samples, err := client.fetchSamples(ctx, config.BaseURL)
	if err != nil {
		return fmt.Errorf("sample retrieval failed: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("service returned no samples")
	}
	stats.SamplesFetched = len(samples)

	// Step 3: Score each sample concurrently and verify expected ranges
	outcomes := make([]ScoreOutcome, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i := range samples {
		g.Go(func() error {
			outcomes[i] = scoreSample(gctx, client, config, samples[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	// Step 4: Tally and report
	for _, o := range outcomes {
		if o.Err != nil {
			stats.ScoringErrors++
			logger.Get().Error(ctx, "sample scoring failed",
				logger.String("sample", o.Sample.ID),
				logger.Error(o.Err))
			continue
		}
		stats.SamplesScored++
		if o.Pass {
			stats.SamplesPassed++
		} else {
			stats.SamplesFailed++
			logger.Get().Warn(ctx, "sample scored outside expected range",
				logger.String("sample", o.Sample.ID),
				logger.Float64("score", o.Result.OverallScore),
				logger.Float64("expectedMin", o.Sample.ExpectedMin),
				logger.Float64("expectedMax", o.Sample.ExpectedMax))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.SamplesFailed > 0 || stats.ScoringErrors > 0 {
		return fmt.Errorf("verification failed: %d out of range, %d errors",
			stats.SamplesFailed, stats.ScoringErrors)
	}
	logger.Get().Info(ctx, "verification completed successfully", logger.String("runID", runID))
	return nil
}

func scoreSample(ctx context.Context, client *HTTPClient, config *Config, sample model.Sample) ScoreOutcome {
	result, err := client.scoreTranscript(ctx, config.BaseURL, sample.Transcript)
	if err != nil {
		return ScoreOutcome{Sample: sample, Err: err}
	}

	pass := result.OverallScore >= sample.ExpectedMin && result.OverallScore <= sample.ExpectedMax
	if config.Verbose {
		logger.Get().Info(ctx, "sample scored",
			logger.String("sample", sample.ID),
			logger.Float64("score", result.OverallScore),
			logger.Int("words", result.WordCount),
			logger.Bool("pass", pass))
	}
	return ScoreOutcome{Sample: sample, Result: result, Pass: pass}
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var passRate float64
	if stats.SamplesScored > 0 {
		passRate = float64(stats.SamplesPassed) / float64(stats.SamplesScored) * 100
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("samplesFetched", stats.SamplesFetched),
		logger.Int("samplesScored", stats.SamplesScored),
		logger.Int("samplesPassed", stats.SamplesPassed),
		logger.Int("samplesFailed", stats.SamplesFailed),
		logger.Int("scoringErrors", stats.ScoringErrors),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate))
}

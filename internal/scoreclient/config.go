package scoreclient

import (
	"time"

	"github.com/talklens/talklens/internal/domain/model"
)

// Config holds configuration for a sample verification run
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Log file for run output
	Verbose bool          // Enable verbose logging
}

// ScoreOutcome pairs a sample with its scoring result
type ScoreOutcome struct {
	Sample model.Sample
	Result model.ScoringResult
	Pass   bool
	Err    error
}

// Stats holds run statistics
type Stats struct {
	SamplesFetched int
	SamplesScored  int
	SamplesPassed  int
	SamplesFailed  int
	ScoringErrors  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

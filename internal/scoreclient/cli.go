package scoreclient

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/talklens/talklens/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "score_run_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the score client tool.
func ShowHelp() {
	os.Stdout.WriteString(`TalkLens Score Client
=====================

Fetches the service's bundled sample transcripts, scores each one and
verifies the overall score lands inside the sample's expected range.

Usage:
  go run cmd/score-client/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -workers int
        Number of concurrent workers (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: score_run_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Verify against a local service
  go run cmd/score-client/main.go

  # Verify against a remote service with more workers
  go run cmd/score-client/main.go -url http://talklens:8080 -workers 8
`)
}

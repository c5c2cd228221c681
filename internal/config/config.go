// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults -> optional YAML file -> env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Embedding provider kinds accepted by EmbedProvider.
const (
	ProviderHash = "hash"
	ProviderHTTP = "http"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RubricPath points at the tabular rubric source (CSV).
	RubricPath string `koanf:"rubric_path"`

	// SamplesPath points at the sample-transcript fixture file (YAML).
	// Empty uses the embedded defaults.
	SamplesPath string `koanf:"samples_path"`

	// MinTranscriptWords and MaxTranscriptWords bound acceptable input.
	MinTranscriptWords int `koanf:"min_transcript_words"`
	MaxTranscriptWords int `koanf:"max_transcript_words"`

	// LengthPenalty multiplies the rule-based sub-score when the transcript
	// misses a criterion's word-count envelope.
	LengthPenalty float64 `koanf:"length_penalty"`

	// PhraseBonus is added when a criterion description appears verbatim.
	PhraseBonus float64 `koanf:"phrase_bonus"`

	// Parallelism bounds concurrent per-criterion scoring.
	Parallelism int `koanf:"parallelism"`

	// DegradedFallback opts into rule+rubric-only rescoring when the
	// embedding provider fails mid-flight. Results are flagged as degraded.
	DegradedFallback bool `koanf:"degraded_fallback"`

	// EmbedProvider selects the embedding backend: "hash" or "http".
	EmbedProvider string `koanf:"embed_provider"`

	// EmbedEndpoint is the inference server base URL (http provider only).
	EmbedEndpoint string `koanf:"embed_endpoint"`

	// EmbedModel names the model forwarded to the inference server.
	EmbedModel string `koanf:"embed_model"`

	// EmbedTimeoutMS bounds a single embedding call.
	EmbedTimeoutMS int `koanf:"embed_timeout_ms"`

	// EmbedDimension sets the hash provider's vector dimension.
	EmbedDimension int `koanf:"embed_dimension"`

	// EmbedCacheSize bounds the transcript-embedding cache.
	EmbedCacheSize int `koanf:"embed_cache_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		RubricPath:         "data/rubric.csv",
		SamplesPath:        "",
		MinTranscriptWords: 10,
		MaxTranscriptWords: 5000,
		LengthPenalty:      0.85,
		PhraseBonus:        5,
		Parallelism:        runtime.NumCPU(),
		DegradedFallback:   false,
		EmbedProvider:      ProviderHash,
		EmbedEndpoint:      "",
		EmbedModel:         "",
		EmbedTimeoutMS:     10_000,
		EmbedDimension:     256,
		EmbedCacheSize:     4096,
	}
}

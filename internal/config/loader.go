package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TALKLENS_CONFIG is set
//  3. env (prefix TALKLENS_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TALKLENS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TALKLENS_ADDR, TALKLENS_RUBRIC_PATH, ...
	// Map env keys like TALKLENS_RUBRIC_PATH -> rubric_path (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("TALKLENS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "talklens_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.RubricPath == "":
		return fmt.Errorf("rubric_path must not be empty: %w", ErrInvalidConfig)
	case c.MinTranscriptWords < 1:
		return fmt.Errorf("min_transcript_words must be at least 1: %w", ErrInvalidConfig)
	case c.MaxTranscriptWords > 0 && c.MaxTranscriptWords < c.MinTranscriptWords:
		return fmt.Errorf("max_transcript_words below min_transcript_words: %w", ErrInvalidConfig)
	case c.LengthPenalty <= 0 || c.LengthPenalty > 1:
		return fmt.Errorf("length_penalty must be in (0, 1]: %w", ErrInvalidConfig)
	case c.PhraseBonus < 0:
		return fmt.Errorf("phrase_bonus must not be negative: %w", ErrInvalidConfig)
	}

	switch c.EmbedProvider {
	case ProviderHash:
	case ProviderHTTP:
		if c.EmbedEndpoint == "" {
			return fmt.Errorf("embed_endpoint required for the http provider: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown embed_provider %q: %w", c.EmbedProvider, ErrInvalidConfig)
	}
	return nil
}

// Package samples serves the bundled example transcripts with their
// expected score ranges. The data is static fixture content: it is returned
// by GET /api/samples and consumed by the score-client verification runner,
// never produced by the engine.
package samples

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talklens/talklens/internal/domain/model"
)

// Sentinel kinds for sample loading errors.
var (
	ErrLoad = errors.New("samples load failed")
)

// Store holds the loaded samples, read-only after construction.
type Store struct {
	samples []model.Sample
}

// Load reads samples from the YAML file at path, or falls back to the
// embedded defaults when path is empty.
func Load(path string) (*Store, error) {
	data := defaultSamplesYAML
	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
		if err != nil {
			return nil, fmt.Errorf("read samples %s: %w: %w", path, ErrLoad, err)
		}
		data = raw
	}

	var samples []model.Sample
	if err := yaml.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse samples: %w: %w", ErrLoad, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples defined: %w", ErrLoad)
	}
	for i, s := range samples {
		if s.ID == "" || s.Transcript == "" {
			return nil, fmt.Errorf("sample %d missing id or transcript: %w", i, ErrLoad)
		}
		if s.ExpectedMin < 0 || s.ExpectedMax > 100 || s.ExpectedMin > s.ExpectedMax {
			return nil, fmt.Errorf("sample %q has invalid expected range [%v, %v]: %w",
				s.ID, s.ExpectedMin, s.ExpectedMax, ErrLoad)
		}
	}
	return &Store{samples: samples}, nil
}

// All returns the samples in file order. Callers must not modify the
// returned slice.
func (s *Store) All() []model.Sample {
	return s.samples
}

// Len returns the number of loaded samples.
func (s *Store) Len() int {
	return len(s.samples)
}

// Package embedding defines the contract for turning text into vectors and
// the cosine-similarity math used by the scoring engine.
package embedding

import (
	"context"
	"math"
)

// Provider computes sentence embeddings. Implementations must be safe for
// concurrent calls, or serialize access internally; the engine issues
// embedding requests from multiple scoring requests at once.
type Provider interface {
	// Embed returns the embedding vector for text, honoring ctx for
	// cancellation. Failures wrap ErrUnavailable.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Ready reports whether the provider can serve inference. Scoring
	// requests issued before readiness fail fast with ErrNotReady.
	Ready(ctx context.Context) error
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Mismatched or
// zero-magnitude vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Guard against floating point drift past the valid range.
	return math.Max(-1, math.Min(1, sim))
}

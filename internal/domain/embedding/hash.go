package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/talklens/talklens/internal/domain/text"
)

// Default hash provider configuration constants.
const (
	defaultHashDimension = 256
)

// HashOption applies a configuration option to the HashProvider.
type HashOption func(*HashProvider)

// WithDimension sets the embedding dimension.
func WithDimension(dim int) HashOption {
	return func(p *HashProvider) {
		if dim > 0 {
			p.dim = dim
		}
	}
}

// HashProvider is a deterministic, dependency-free embedder built on token
// feature hashing. It is no substitute for a sentence-transformer model, but
// it preserves the cosine-similarity contract, needs no external service and
// is fully reproducible, which makes it the offline and test provider.
type HashProvider struct {
	dim int
}

// NewHashProvider creates a hash provider with configuration options.
func NewHashProvider(opts ...HashOption) *HashProvider {
	p := &HashProvider{dim: defaultHashDimension}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Embed hashes each token into a fixed-size count vector and L2-normalizes it.
func (p *HashProvider) Embed(ctx context.Context, input string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, p.dim)
	for _, token := range text.Tokenize(input) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()
		idx := int(sum % uint64(p.dim)) //nolint:gosec // dim is small and positive
		// Half the tokens contribute negatively so unrelated texts do not
		// converge on all-positive vectors with spuriously high cosine.
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Ready always succeeds; the hash provider has no warm-up.
func (p *HashProvider) Ready(ctx context.Context) error {
	return ctx.Err()
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/talklens/talklens/pkg/metrics"
)

// Default HTTP provider configuration constants.
const (
	defaultHTTPTimeout  = 10 * time.Second
	maxErrorBodyBytes   = 512
	embedPath           = "/embed"
	healthPath          = "/health"
	contentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// HTTPOption applies a configuration option to the HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if timeout > 0 {
			p.client.Timeout = timeout
		}
	}
}

// WithModel sets the model name forwarded to the inference server.
func WithModel(model string) HTTPOption {
	return func(p *HTTPProvider) {
		p.model = model
	}
}

// HTTPProvider talks to a sentence-embedding inference server over JSON.
// The client is stateless, so concurrent inference calls are safe.
type HTTPProvider struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewHTTPProvider creates an HTTP provider for the given endpoint with
// configuration options.
func NewHTTPProvider(endpoint string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// embedRequest mirrors the inference server's embed schema.
type embedRequest struct {
	Inputs []string `json:"inputs"`
	Model  string   `json:"model,omitempty"`
}

// Embed requests an embedding for text from the inference server.
func (p *HTTPProvider) Embed(ctx context.Context, input string) ([]float64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordEmbeddingLatency(float64(time.Since(start).Milliseconds()))
	}()

	body, err := json.Marshal(embedRequest{Inputs: []string{input}, Model: p.model})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+embedPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSONUTF8)

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.RecordEmbeddingError()
		return nil, fmt.Errorf("embed call failed: %w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordEmbeddingError()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("embed call returned %d (%s): %w",
			resp.StatusCode, strings.TrimSpace(string(snippet)), ErrUnavailable)
	}

	var vectors [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		metrics.RecordEmbeddingError()
		return nil, fmt.Errorf("decode embed response: %w: %w", ErrUnavailable, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		metrics.RecordEmbeddingError()
		return nil, fmt.Errorf("embed response has %d vectors: %w", len(vectors), ErrUnavailable)
	}
	return vectors[0], nil
}

// Ready probes the inference server's health endpoint.
func (p *HTTPProvider) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("health probe failed: %w: %w", ErrNotReady, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe returned %d: %w", resp.StatusCode, ErrNotReady)
	}
	return nil
}

package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talklens/talklens/internal/domain/model"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *HTTPClient) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// checkHealth verifies the service is running and ready to score.
func (c *HTTPClient) checkHealth(ctx context.Context, baseURL string) error {
	resp, err := c.get(ctx, baseURL+"/api/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service not ready, status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

// fetchSamples retrieves the bundled sample transcripts from the service.
func (c *HTTPClient) fetchSamples(ctx context.Context, baseURL string) ([]model.Sample, error) {
	resp, err := c.get(ctx, baseURL+"/api/samples")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("samples request failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		Success bool           `json:"success"`
		Samples []model.Sample `json:"samples"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse samples response: %w", err)
	}
	return parsed.Samples, nil
}

// scoreTranscript submits one transcript and returns the scoring result.
func (c *HTTPClient) scoreTranscript(ctx context.Context, baseURL, transcript string) (model.ScoringResult, error) {
	resp, err := c.postJSON(ctx, baseURL+"/api/score", map[string]string{"transcript": transcript})
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("score request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("failed to read score response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.ScoringResult{}, fmt.Errorf("score request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var parsed struct {
		Success bool                `json:"success"`
		Result  model.ScoringResult `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.ScoringResult{}, fmt.Errorf("failed to parse score response: %w", err)
	}
	if !parsed.Success {
		return model.ScoringResult{}, fmt.Errorf("service reported failure")
	}
	return parsed.Result, nil
}

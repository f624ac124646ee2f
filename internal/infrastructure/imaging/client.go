package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AplusBackend/internal/domain"
	"AplusBackend/internal/ports"
)

const maxImageBytes = 32 << 20

// Client forwards generation requests to an external diffusion service.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.ImageGenerator = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Generate returns the raw image bytes produced for req.
func (c *Client) Generate(ctx context.Context, req domain.ImageRequest) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"prompt":              req.Prompt,
		"guidance_scale":      req.GuidanceScale,
		"num_inference_steps": req.InferenceSteps,
		"max_sequence_length": req.MaxSequenceLength,
		"seed":                req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/png")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image response")
	}
	return image, nil
}

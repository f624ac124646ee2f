package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AplusBackend/internal/config"
	"AplusBackend/internal/ports"
)

const defaultPrompt = "Extract all text from this document."

// ChatRecognizer implements ports.Recognizer on top of an OpenAI-compatible
// chat completions endpoint with vision input (DashScope compatible mode).
type ChatRecognizer struct {
	endpoint   string
	model      string
	apiKey     string
	prompt     string
	httpClient *http.Client
}

var _ ports.Recognizer = (*ChatRecognizer)(nil)

// NewChatRecognizer builds a recognizer from configuration.
func NewChatRecognizer(cfg config.RecognitionConfig) *ChatRecognizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ChatRecognizer{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		prompt:     cfg.Prompt,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recognize posts the document as a base64 data URL and returns the first choice.
func (c *ChatRecognizer) Recognize(ctx context.Context, filename string, data []byte) (string, error) {
	if c == nil {
		return "", errors.New("chat recognizer is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", errors.New("chat recognizer misconfigured")
	}

	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
					{"type": "text", "text": safePrompt(c.prompt)},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal recognition payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("recognition error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode recognition response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("recognition response has no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultPrompt
	}
	return prompt
}

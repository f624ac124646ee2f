package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"AplusBackend/internal/config"
	"AplusBackend/internal/ports"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiRecognizer implements ports.Recognizer with Gemini's native PDF input.
type GeminiRecognizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	prompt string
}

var _ ports.Recognizer = (*GeminiRecognizer)(nil)

// NewGeminiRecognizer creates a client. The caller owns Close.
func NewGeminiRecognizer(ctx context.Context, cfg config.RecognitionConfig) (*GeminiRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" || strings.HasPrefix(name, "qwen") {
		name = defaultGeminiModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0)

	return &GeminiRecognizer{client: client, model: model, prompt: safePrompt(cfg.Prompt)}, nil
}

// Recognize sends the PDF as an inline blob followed by the prompt.
func (g *GeminiRecognizer) Recognize(ctx context.Context, filename string, data []byte) (string, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: data},
		genai.Text(g.prompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini recognize %s: %w", filename, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (g *GeminiRecognizer) Close() error {
	return g.client.Close()
}

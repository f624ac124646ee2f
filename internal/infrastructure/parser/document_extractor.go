package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"AplusBackend/internal/domain"
	"AplusBackend/internal/extraction"
	"AplusBackend/internal/ports"
)

// DocumentExtractor sends uploaded documents to a recognition service.
type DocumentExtractor struct {
	recognizer ports.Recognizer
	logger     *slog.Logger
}

var _ extraction.Strategy = (*DocumentExtractor)(nil)

// NewDocumentExtractor accepts a nil recognizer; every document then comes back unavailable.
func NewDocumentExtractor(recognizer ports.Recognizer, log *slog.Logger) *DocumentExtractor {
	return &DocumentExtractor{recognizer: recognizer, logger: log}
}

// Kind identifies the strategy inside the registry.
func (d *DocumentExtractor) Kind() domain.SourceKind {
	return domain.KindDocument
}

// Extract maps the recognizer response onto an outcome.
func (d *DocumentExtractor) Extract(ctx context.Context, src domain.Source) domain.Outcome {
	if d.recognizer == nil {
		return domain.Unavailable("document recognition service is not configured")
	}
	if len(src.Data) == 0 {
		return domain.Failed("document is empty")
	}

	if d.logger != nil {
		d.logger.Debug("recognize document", "file", src.Name, "size", len(src.Data))
	}

	text, err := d.recognizer.Recognize(ctx, src.Name, src.Data)
	if err != nil {
		return domain.Failed(fmt.Sprintf("document recognition failed: %v", err))
	}
	if strings.TrimSpace(text) == "" {
		return domain.Failed("document recognition returned no content")
	}
	return domain.Succeeded(text)
}

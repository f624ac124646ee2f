package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"AplusBackend/internal/domain"
)

type recognizerFunc func(ctx context.Context, filename string, data []byte) (string, error)

func (f recognizerFunc) Recognize(ctx context.Context, filename string, data []byte) (string, error) {
	return f(ctx, filename, data)
}

func TestDocumentExtractorOutcomes(t *testing.T) {
	t.Parallel()

	pdf := domain.Source{Kind: domain.KindDocument, Name: "notes.pdf", Data: []byte("%PDF-1.4 ...")}

	tests := []struct {
		name       string
		recognizer recognizerFunc
		src        domain.Source
		wantStatus domain.OutcomeStatus
		wantText   string
		wantReason string
	}{
		{
			name: "success",
			recognizer: func(_ context.Context, filename string, data []byte) (string, error) {
				if filename != "notes.pdf" || len(data) == 0 {
					return "", errors.New("unexpected input")
				}
				return "# Chapter 1", nil
			},
			src:        pdf,
			wantStatus: domain.OutcomeSuccess,
			wantText:   "# Chapter 1",
		},
		{
			name: "transport fault",
			recognizer: func(context.Context, string, []byte) (string, error) {
				return "", errors.New("connection reset")
			},
			src:        pdf,
			wantStatus: domain.OutcomeFailed,
			wantReason: "connection reset",
		},
		{
			name: "blank content",
			recognizer: func(context.Context, string, []byte) (string, error) {
				return "  \n ", nil
			},
			src:        pdf,
			wantStatus: domain.OutcomeFailed,
			wantReason: "no content",
		},
		{
			name: "empty document",
			recognizer: func(context.Context, string, []byte) (string, error) {
				return "never", nil
			},
			src:        domain.Source{Kind: domain.KindDocument, Name: "empty.pdf"},
			wantStatus: domain.OutcomeFailed,
			wantReason: "empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := NewDocumentExtractor(tc.recognizer, nil).Extract(context.Background(), tc.src)
			if out.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %+v", tc.wantStatus, out)
			}
			if out.Text != tc.wantText {
				t.Fatalf("unexpected text: %q", out.Text)
			}
			if !strings.Contains(out.Reason, tc.wantReason) {
				t.Fatalf("expected reason containing %q, got %q", tc.wantReason, out.Reason)
			}
		})
	}
}

func TestDocumentExtractorWithoutRecognizer(t *testing.T) {
	t.Parallel()

	out := NewDocumentExtractor(nil, nil).Extract(context.Background(), domain.Source{Data: []byte("x")})
	if out.Status != domain.OutcomeUnavailable {
		t.Fatalf("expected unavailable, got %+v", out)
	}
	if out.OK() {
		t.Fatal("unavailable outcome must not be OK")
	}
}

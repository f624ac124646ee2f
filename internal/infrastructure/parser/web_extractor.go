package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"AplusBackend/internal/domain"
	"AplusBackend/internal/extraction"
)

const (
	defaultWebTimeout = 30 * time.Second
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	maxPageBytes      = 10 << 20
)

// WebOptions tunes the web extraction strategy.
type WebOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Readable reduces pages to their main article before taking text.
	Readable bool
}

// WebExtractor fetches a URL and returns its visible text.
type WebExtractor struct {
	client    *http.Client
	userAgent string
	readable  bool
	logger    *slog.Logger
}

var _ extraction.Strategy = (*WebExtractor)(nil)

// NewWebExtractor wires an HTTP client; a nil client gets the configured timeout (30s default).
func NewWebExtractor(client *http.Client, opts WebOptions, log *slog.Logger) *WebExtractor {
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultWebTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	return &WebExtractor{client: client, userAgent: ua, readable: opts.Readable, logger: log}
}

// Kind identifies the strategy inside the registry.
func (w *WebExtractor) Kind() domain.SourceKind {
	return domain.KindWeb
}

// Extract downloads src.URL and converts the markup to cleaned text.
// An empty page is a success with empty text.
func (w *WebExtractor) Extract(ctx context.Context, src domain.Source) domain.Outcome {
	text, err := w.fetchText(ctx, src.URL)
	if err != nil {
		return domain.Failed(fmt.Sprintf("fetch %s: %v", src.URL, err))
	}
	return domain.Succeeded(text)
}

func (w *WebExtractor) fetchText(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	body = w.decodePage(body, resp.Header.Get("Content-Type"))

	if w.readable {
		article, rErr := readability.FromReader(bytes.NewReader(body), pageURL)
		if rErr == nil {
			return NormalizeText(article.TextContent), nil
		}
		w.debug("readability failed, using visible text", "url", rawURL, "error", rErr)
	}

	return VisibleText(bytes.NewReader(body))
}

// decodePage converts body to UTF-8 using the declared or sniffed charset.
// Undecodable pages are returned as is.
func (w *WebExtractor) decodePage(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		w.debug("unknown page charset", "content_type", contentType, "error", err)
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		w.debug("decode page charset", "content_type", contentType, "error", err)
		return body
	}
	return decoded
}

// VisibleText parses markup, drops non-visible elements and returns normalized text.
func VisibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return NormalizeText(doc.Text()), nil
}

// NormalizeText trims every line, collapses inner whitespace runs and drops blank lines.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func parsePageURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", raw)
	}
	return parsed, nil
}

func (w *WebExtractor) debug(msg string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

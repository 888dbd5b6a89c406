package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/extraction"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/reporting"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxChars = 15000
)

// Extractor downloads article pages and pulls plain text out of them.
type Extractor struct {
	client    *http.Client
	strategy  extraction.Strategy
	userAgent string
	maxChars  int
	logger    *slog.Logger
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; nil client gets one with the configured timeout.
func NewExtractor(cfg config.ExtractorConfig, strategy extraction.Strategy, client *http.Client, log *slog.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if strategy == nil {
		strategy = extraction.Paragraphs{}
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &Extractor{
		client:    client,
		strategy:  strategy,
		userAgent: cfg.UserAgent,
		maxChars:  maxChars,
		logger:    log,
	}
}

// GetArticleText fetches rawURL and returns its text capped at maxChars.
func (e *Extractor) GetArticleText(ctx context.Context, rawURL string) (string, error) {
	text, err := e.fetch(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		e.warn("could not extract article text", "url", rawURL, "error", err)
		if !errors.Is(err, domain.ErrExtractionEmpty) {
			reporting.Capture("scraper", err)
		}
		return "", err
	}
	return domain.Truncate(text, e.maxChars), nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		return "", fmt.Errorf("%w: invalid article url %q", domain.ErrTransport, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request page: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", domain.ErrProvider, pageURL.Host, resp.Status)
	}

	text, err := e.strategy.Extract(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrProvider, e.strategy.Name(), err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: %s found nothing at %s", domain.ErrExtractionEmpty, e.strategy.Name(), rawURL)
	}
	return text, nil
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

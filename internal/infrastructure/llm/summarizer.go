package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/reporting"
)

const (
	defaultMaxChars = 15000
	defaultPrompt   = "You are a helpful assistant. Summarize the following news article into a concise, email-friendly paragraph (3-4 sentences)."
)

// completer is one chat-completion round trip against a provider.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
	name() string
}

// Summarizer implements ports.Summarizer on top of a language-model provider.
type Summarizer struct {
	backend  completer
	prompt   string
	maxChars int
	logger   *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// New builds a summarizer for cfg.Provider. A missing key or unknown provider
// is an initialization error; callers decide once what to do with it.
func New(cfg config.SummarizerConfig, httpClient *http.Client, log *slog.Logger) (*Summarizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: summarizer api key is not set", domain.ErrConfiguration)
	}

	var backend completer
	switch cfg.Provider {
	case "", "openai":
		backend = newOpenAI(cfg, httpClient)
	case "anthropic":
		backend = newAnthropic(cfg, httpClient)
	default:
		return nil, fmt.Errorf("%w: unknown summarizer provider %q", domain.ErrConfiguration, cfg.Provider)
	}

	prompt := strings.TrimSpace(cfg.SystemPrompt)
	if prompt == "" {
		prompt = defaultPrompt
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	return &Summarizer{
		backend:  backend,
		prompt:   prompt,
		maxChars: maxChars,
		logger:   log,
	}, nil
}

// Summarize asks the model for a short paragraph. Failures come back as a
// tagged domain.Summary, never as a panic or error.
func (s *Summarizer) Summarize(ctx context.Context, text string) domain.Summary {
	if strings.TrimSpace(text) == "" {
		return domain.Failed(domain.FailureNoText)
	}

	input := domain.Truncate(text, s.maxChars)
	out, err := s.backend.complete(ctx, s.prompt, input)
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("%w: %s returned an empty completion", domain.ErrProvider, s.backend.name())
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Error("summarization failed", "provider", s.backend.name(), "error", err)
		}
		reporting.Capture("summarizer", err)
		return domain.Failed(domain.FailureModel)
	}

	return domain.Summarized(strings.TrimSpace(out))
}

// Unavailable stands in for a summarizer that failed to initialize.
type Unavailable struct {
	Reason error
}

var _ ports.Summarizer = Unavailable{}

// Summarize reports the missing client without any network call.
func (u Unavailable) Summarize(_ context.Context, text string) domain.Summary {
	if strings.TrimSpace(text) == "" {
		return domain.Failed(domain.FailureNoText)
	}
	return domain.Failed(domain.FailureUnavailable)
}

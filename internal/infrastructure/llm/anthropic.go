package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

type anthropicBackend struct {
	client *anthropic.Client
	model  anthropic.Model
}

func newAnthropic(cfg config.SummarizerConfig, httpClient *http.Client) *anthropicBackend {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(httpClient))
	}

	model := cfg.Model
	if model == "" {
		model = "claude-haiku-4-5"
	}

	client := anthropic.NewClient(opts...)
	return &anthropicBackend{client: &client, model: anthropic.Model(model)}
}

func (b *anthropicBackend) name() string {
	return "anthropic"
}

func (b *anthropicBackend) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", domain.ErrProvider, err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: no text in anthropic response", domain.ErrProvider)
	}
	return out.String(), nil
}

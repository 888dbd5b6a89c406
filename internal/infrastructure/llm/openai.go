package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

type openAIBackend struct {
	client *openai.Client
	model  openai.ChatModel
}

func newOpenAI(cfg config.SummarizerConfig, httpClient *http.Client) *openAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	client := openai.NewClient(opts...)
	return &openAIBackend{client: &client, model: openai.ChatModel(model)}
}

func (b *openAIBackend) name() string {
	return "openai"
}

func (b *openAIBackend) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", domain.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from openai", domain.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}

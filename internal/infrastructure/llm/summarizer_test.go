package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-playground/assert/v2"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
)

type stubBackend struct {
	calls  int
	system string
	user   string
	out    string
	err    error
}

func (s *stubBackend) complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.out, s.err
}

func (s *stubBackend) name() string { return "stub" }

func newStubSummarizer(b *stubBackend, maxChars int) *Summarizer {
	return &Summarizer{backend: b, prompt: defaultPrompt, maxChars: maxChars, logger: logging.Nop()}
}

func TestSummarizeEmptyInput(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{out: "never"}
	s := newStubSummarizer(backend, 100)

	for _, in := range []string{"", "   \n\t"} {
		got := s.Summarize(context.Background(), in)
		assert.Equal(t, domain.FailureNoText, got.Failure)
		assert.Equal(t, "Error: No text provided to summarize.", got.Message())
	}
	assert.Equal(t, 0, backend.calls)
}

func TestSummarizeTruncatesInput(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{out: "  A tidy summary.  "}
	s := newStubSummarizer(backend, 10)

	got := s.Summarize(context.Background(), strings.Repeat("x", 50))

	assert.Equal(t, true, got.OK())
	assert.Equal(t, "A tidy summary.", got.Text)
	assert.Equal(t, 10, len(backend.user))
	assert.Equal(t, defaultPrompt, backend.system)
}

func TestSummarizeModelFailure(t *testing.T) {
	t.Parallel()

	for _, backend := range []*stubBackend{
		{err: errors.New("quota exceeded")},
		{out: "   "},
	} {
		got := newStubSummarizer(backend, 100).Summarize(context.Background(), "Some article text.")
		assert.Equal(t, domain.FailureModel, got.Failure)
		assert.Equal(t, 1, backend.calls)
	}
}

func TestNewRequiresKeyAndKnownProvider(t *testing.T) {
	t.Parallel()

	_, err := New(config.SummarizerConfig{Provider: "openai"}, nil, nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	_, err = New(config.SummarizerConfig{Provider: "palm", APIKey: "k"}, nil, nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	u := Unavailable{Reason: errors.New("no key")}
	assert.Equal(t, domain.FailureUnavailable, u.Summarize(context.Background(), "text").Failure)
	assert.Equal(t, domain.FailureNoText, u.Summarize(context.Background(), "").Failure)
}

func TestOpenAIBackend(t *testing.T) {
	t.Parallel()

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") || r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
		  "id": "chatcmpl-1", "object": "chat.completion", "created": 1700000000, "model": "gpt-3.5-turbo",
		  "choices": [{"index": 0, "finish_reason": "stop",
		    "message": {"role": "assistant", "content": "OpenAI summary."}}],
		  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	}))
	defer server.Close()

	s, err := New(config.SummarizerConfig{
		Provider: "openai",
		APIKey:   "sk-test",
		BaseURL:  server.URL + "/",
	}, server.Client(), logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.Summarize(context.Background(), "Lorem ipsum dolor sit amet.")

	assert.Equal(t, domain.Summarized("OpenAI summary."), got)
	assert.Equal(t, "gpt-3.5-turbo", body.Model)
	assert.Equal(t, 2, len(body.Messages))
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, defaultPrompt, body.Messages[0].Content)
	assert.Equal(t, "Lorem ipsum dolor sit amet.", body.Messages[1].Content)
}

func TestOpenAIBackendErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota", "type": "insufficient_quota"}}`))
	}))
	defer server.Close()

	s, err := New(config.SummarizerConfig{APIKey: "sk-test", BaseURL: server.URL + "/"}, server.Client(), logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.Summarize(context.Background(), "text")

	assert.Equal(t, domain.FailureModel, got.Failure)
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropicBackend(t *testing.T) {
	t.Parallel()

	var system string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") || r.Header.Get("X-Api-Key") != "ak-test" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.System) > 0 {
			system = req.System[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
		  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-haiku-4-5",
		  "content": [{"type": "text", "text": "Anthropic summary."}],
		  "stop_reason": "end_turn", "usage": {"input_tokens": 10, "output_tokens": 3}
		}`))
	}))
	defer server.Close()

	s, err := New(config.SummarizerConfig{
		Provider: "anthropic",
		APIKey:   "ak-test",
		BaseURL:  server.URL + "/",
	}, server.Client(), logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.Summarize(context.Background(), "Lorem ipsum.")

	assert.Equal(t, "Anthropic summary.", got.Text)
	assert.Equal(t, true, got.OK())
	assert.Equal(t, defaultPrompt, system)
}

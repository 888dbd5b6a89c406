package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Extractor  ports.ContentExtractor
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Query      ports.Query
	Recipient  string
	Logger     *slog.Logger
	// NewRunID overrides run id generation; defaults to random UUIDs.
	NewRunID func() string
}

// Pipeline implements the fetch -> extract+summarize -> deliver workflow.
type Pipeline struct {
	source     ports.ArticleSource
	extractor  ports.ContentExtractor
	summarizer ports.Summarizer
	notifier   ports.Notifier
	query      ports.Query
	recipient  string
	logger     *slog.Logger
	newRunID   func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	newRunID := deps.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		query:      deps.Query,
		recipient:  deps.Recipient,
		logger:     logger,
		newRunID:   newRunID,
	}
}

// Run executes one newsletter cycle. Degraded steps are logged and reflected
// in the report; only failures outside the domain taxonomy are returned.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	report := domain.Report{RunID: p.newRunID(), Topic: p.query.Topic}
	log := p.logger.With("run_id", report.RunID)

	if p.source == nil || p.extractor == nil || p.summarizer == nil || p.notifier == nil {
		return report, errors.New("pipeline is not fully wired")
	}

	log.Info("fetching articles", "topic", p.query.Topic, "count", p.query.Count, "domains", len(p.query.Domains))
	refs, err := p.source.FetchTopArticles(ctx, p.query)
	if err != nil {
		return report, fmt.Errorf("fetch articles: %w", err)
	}

	if len(refs) == 0 {
		log.Warn("no articles found, nothing to send", "topic", p.query.Topic)
		return report, nil
	}

	report.Results = make([]domain.SummaryResult, 0, len(refs))
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := p.process(ctx, log.With("item", i+1, "url", ref.URL), ref)
		if err != nil {
			return report, fmt.Errorf("process article %q: %w", ref.URL, err)
		}
		report.Results = append(report.Results, result)
	}

	content, err := RenderNewsletter(p.query.Topic, report.Results)
	if err != nil {
		return report, fmt.Errorf("render newsletter: %w", err)
	}

	err = p.notifier.SendNewsletter(ctx, p.recipient, content)
	switch {
	case err == nil:
		report.Delivered = true
		log.Info("newsletter delivered", "items", len(report.Results), "recipient", p.recipient)
	case errors.Is(err, domain.ErrConfiguration):
		log.Error("newsletter NOT delivered: delivery is not configured, summaries were collected but not sent",
			"items", len(report.Results), "error", err)
	case domain.Degradable(err):
		log.Error("newsletter NOT delivered", "items", len(report.Results), "error", err)
	default:
		return report, fmt.Errorf("send newsletter: %w", err)
	}

	return report, nil
}

// process walks one article through fetched -> extract_attempted ->
// {summarized | skipped_no_text} -> collected.
func (p *Pipeline) process(ctx context.Context, log *slog.Logger, ref domain.ArticleRef) (domain.SummaryResult, error) {
	result := domain.SummaryResult{Article: ref, State: domain.StateFetched}

	text, err := p.extractor.GetArticleText(ctx, ref.URL)
	result.State = domain.StateExtractAttempted
	if err != nil {
		if !domain.Degradable(err) {
			return result, err
		}
		result.State = domain.StateSkippedNoText
		log.Warn("skipping article, no content", "title", ref.Title, "error", err)
		return result, nil
	}

	result.Summary = p.summarizer.Summarize(ctx, text)
	result.State = domain.StateSummarized
	if !result.Summary.OK() {
		log.Warn("summary unavailable", "title", ref.Title, "reason", result.Summary.Failure)
	} else {
		log.Debug("article summarized", "title", ref.Title, "chars", len(text))
	}
	return result, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/extraction"
	"NewsDigest/internal/infrastructure/email"
	"NewsDigest/internal/infrastructure/feeds"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/newsapi"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/scraper"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// Options lets callers swap the HTTP client used by every adapter.
type Options struct {
	HTTPClient *http.Client
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source, err := newSource(cfg.Source, opts.HTTPClient, baseLogger.With("component", "source"))
	if err != nil {
		return nil, err
	}

	strategy, err := extraction.DefaultRegistry().Resolve(cfg.Extractor.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	extractor := scraper.NewExtractor(cfg.Extractor, strategy, opts.HTTPClient, baseLogger.With("component", "extractor"))

	var summarizer ports.Summarizer
	summarizerLogger := baseLogger.With("component", "summarizer")
	if s, err := llm.New(cfg.Summarizer, opts.HTTPClient, summarizerLogger); err != nil {
		summarizerLogger.Error("summarizer not initialized, summaries will be marked unavailable",
			"provider", cfg.Summarizer.Provider, "error", err)
		summarizer = llm.Unavailable{Reason: err}
	} else {
		summarizer = s
	}

	notifier := email.NewNotifier(cfg.Email, baseLogger.With("component", "email"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Extractor:  extractor,
		Summarizer: summarizer,
		Notifier:   notifier,
		Query: ports.Query{
			APIKey:  cfg.Source.APIKey,
			Domains: cfg.Source.Domains,
			Topic:   cfg.Source.Topic,
			Count:   cfg.Source.Count,
		},
		Recipient: cfg.Email.Recipient,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	var sched *usecase.Scheduler
	if every := cfg.Schedule.Every(); every > 0 {
		sched = usecase.NewScheduler(scheduler.NewIntervalScheduler(every), pipeline, baseLogger.With("component", "scheduler"))
	}

	return &Application{cfg: cfg, pipeline: pipeline, scheduler: sched, logger: baseLogger}, nil
}

func newSource(cfg config.SourceConfig, client *http.Client, log *slog.Logger) (ports.ArticleSource, error) {
	switch cfg.Kind {
	case "", "newsapi":
		return newsapi.NewClient(cfg.Endpoint, cfg.Language, client, log), nil
	case "rss":
		if len(cfg.Feeds) == 0 {
			return nil, fmt.Errorf("%w: rss source needs at least one feed", domain.ErrConfiguration)
		}
		return feeds.NewRSSSource(cfg.Feeds, client, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrConfiguration, cfg.Kind)
	}
}

// RunOnce executes a single newsletter cycle.
func (a *Application) RunOnce(ctx context.Context) (domain.Report, error) {
	return a.pipeline.Run(ctx)
}

// Run executes once, or keeps running on the configured interval until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		report, err := a.RunOnce(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("run finished", "run_id", report.RunID, "items", len(report.Results), "delivered", report.Delivered)
		return nil
	}

	a.logger.Info("scheduler started", "interval", a.cfg.Schedule.Every().String())
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

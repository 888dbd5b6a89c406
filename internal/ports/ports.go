package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// Query carries the search parameters for one article lookup.
type Query struct {
	APIKey  string
	Domains []string
	Topic   string
	Count   int
}

// ArticleSource pulls recent articles for a topic from an upstream provider.
// Expected provider failures yield an empty slice and a nil error.
type ArticleSource interface {
	FetchTopArticles(ctx context.Context, q Query) ([]domain.ArticleRef, error)
}

// ContentExtractor downloads a page and returns its plain-text body.
// A non-nil error means no text is available for the article.
type ContentExtractor interface {
	GetArticleText(ctx context.Context, url string) (string, error)
}

// Summarizer condenses article text into a short paragraph.
type Summarizer interface {
	Summarize(ctx context.Context, text string) domain.Summary
}

// Notifier delivers the rendered newsletter.
type Notifier interface {
	SendNewsletter(ctx context.Context, recipient, htmlContent string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

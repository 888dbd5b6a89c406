package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/reporting"
)

// RSSSource implements ports.ArticleSource over a fixed list of RSS/Atom feeds.
// Items are matched against the topic and the domain allow-list locally.
type RSSSource struct {
	feeds  []string
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.ArticleSource = (*RSSSource)(nil)

// NewRSSSource wires feed URLs; nil client gets a 20s timeout.
func NewRSSSource(feeds []string, client *http.Client, log *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	return &RSSSource{feeds: feeds, parser: parser, logger: log}
}

// FetchTopArticles walks feeds in order and stops once Count matches are found.
func (s *RSSSource) FetchTopArticles(ctx context.Context, q ports.Query) ([]domain.ArticleRef, error) {
	if strings.TrimSpace(q.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is empty", domain.ErrConfiguration)
	}
	if q.Count <= 0 {
		return nil, fmt.Errorf("%w: article count must be positive, got %d", domain.ErrConfiguration, q.Count)
	}

	topic := strings.ToLower(q.Topic)
	refs := make([]domain.ArticleRef, 0, q.Count)

	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			err = fmt.Errorf("%w: feed %s: %v", domain.ErrProvider, feedURL, err)
			if s.logger != nil {
				s.logger.Error("feed fetch failed", "provider", "rss", "feed", feedURL, "error", err)
			}
			reporting.Capture("rss", err)
			continue
		}

		for _, item := range feed.Items {
			if !matchesTopic(item, topic) || !allowedDomain(item.Link, q.Domains) {
				continue
			}
			refs = append(refs, domain.ArticleRef{
				Title:       strings.TrimSpace(item.Title),
				SourceName:  feed.Title,
				URL:         item.Link,
				Description: strings.TrimSpace(item.Description),
			})
			if len(refs) == q.Count {
				return refs, nil
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("fetched articles", "topic", q.Topic, "feeds", len(s.feeds), "count", len(refs))
	}
	return refs, nil
}

func matchesTopic(item *gofeed.Item, topic string) bool {
	return strings.Contains(strings.ToLower(item.Title), topic) ||
		strings.Contains(strings.ToLower(item.Description), topic)
}

// allowedDomain accepts hosts equal to or under one of the listed domains.
// An empty list allows everything.
func allowedDomain(link string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

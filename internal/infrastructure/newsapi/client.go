package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/reporting"
)

const (
	defaultEndpoint = "https://newsapi.org"
	everythingPath  = "/v2/everything"
)

// Client implements ports.ArticleSource against the NewsAPI "everything" search.
type Client struct {
	endpoint string
	language string
	http     *http.Client
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*Client)(nil)

type searchResponse struct {
	Status   string     `json:"status"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Articles *[]article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NewClient builds a search client; nil httpClient gets a 20s timeout.
func NewClient(endpoint, language string, httpClient *http.Client, log *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if language == "" {
		language = "en"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		language: language,
		http:     httpClient,
		logger:   log,
	}
}

// FetchTopArticles issues one search and maps the hits to ArticleRefs.
// Transport, status and payload failures are logged and yield an empty result.
func (c *Client) FetchTopArticles(ctx context.Context, q ports.Query) ([]domain.ArticleRef, error) {
	if strings.TrimSpace(q.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is empty", domain.ErrConfiguration)
	}
	if q.Count <= 0 {
		return nil, fmt.Errorf("%w: article count must be positive, got %d", domain.ErrConfiguration, q.Count)
	}

	endpoint, err := c.buildURL(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// The key must stay out of the URL: url.Error text ends up in logs.
	req.Header.Set("X-Api-Key", q.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.degrade(fmt.Errorf("%w: newsapi request: %v", domain.ErrTransport, err))
		return []domain.ArticleRef{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readMessage(resp.Body)
		c.degrade(fmt.Errorf("%w: newsapi returned %s: %s", domain.ErrProvider, resp.Status, detail))
		return []domain.ArticleRef{}, nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.degrade(fmt.Errorf("%w: decode newsapi response: %v", domain.ErrProvider, err))
		return []domain.ArticleRef{}, nil
	}

	if payload.Status != "ok" {
		c.degrade(fmt.Errorf("%w: newsapi status %q (%s): %s", domain.ErrProvider, payload.Status, payload.Code, payload.Message))
		return []domain.ArticleRef{}, nil
	}

	if payload.Articles == nil {
		c.degrade(fmt.Errorf("%w: newsapi response has no articles field, check API key and query", domain.ErrProvider))
		return []domain.ArticleRef{}, nil
	}

	refs := make([]domain.ArticleRef, 0, len(*payload.Articles))
	for _, a := range *payload.Articles {
		refs = append(refs, domain.ArticleRef{
			Title:       a.Title,
			SourceName:  a.Source.Name,
			URL:         a.URL,
			Description: a.Description,
		})
	}

	c.info("fetched articles", "topic", q.Topic, "count", len(refs))
	return refs, nil
}

func (c *Client) buildURL(q ports.Query) (string, error) {
	parsed, err := url.Parse(c.endpoint + everythingPath)
	if err != nil {
		return "", fmt.Errorf("%w: invalid newsapi endpoint %s: %v", domain.ErrConfiguration, c.endpoint, err)
	}

	query := parsed.Query()
	query.Set("q", q.Topic)
	if len(q.Domains) > 0 {
		query.Set("domains", strings.Join(q.Domains, ","))
	}
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(q.Count))
	query.Set("language", c.language)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// readMessage pulls the provider message out of an error body, falling back to raw text.
func readMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1024))
	var payload searchResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) degrade(err error) {
	if c.logger != nil {
		c.logger.Error("article search failed", "provider", "newsapi", "error", err)
	}
	reporting.Capture("newsapi", err)
}

func (c *Client) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

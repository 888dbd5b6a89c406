package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"NewsDigest/internal/domain"
)

//go:embed templates/newsletter.html
var templateFS embed.FS

var newsletterTmpl = template.Must(template.ParseFS(templateFS, "templates/newsletter.html"))

type newsletterItem struct {
	Title    string
	Source   string
	URL      string
	Text     string
	Degraded bool
}

// RenderNewsletter builds the HTML email body; every field is escaped.
func RenderNewsletter(topic string, results []domain.SummaryResult) (string, error) {
	items := make([]newsletterItem, 0, len(results))
	for _, r := range results {
		title := r.Article.Title
		if title == "" {
			title = r.Article.URL
		}
		items = append(items, newsletterItem{
			Title:    title,
			Source:   r.Article.SourceName,
			URL:      r.Article.URL,
			Text:     r.Text(),
			Degraded: r.Skipped() || !r.Summary.OK(),
		})
	}

	var buf bytes.Buffer
	err := newsletterTmpl.Execute(&buf, struct {
		Topic string
		Items []newsletterItem
	}{Topic: topic, Items: items})
	if err != nil {
		return "", fmt.Errorf("execute newsletter template: %w", err)
	}
	return buf.String(), nil
}

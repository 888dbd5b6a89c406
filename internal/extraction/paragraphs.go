package extraction

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Paragraphs joins the text of every <p> element with single spaces.
// It is a generic scraper and will miss content outside paragraph tags.
type Paragraphs struct{}

// Name identifies the strategy inside the registry.
func (Paragraphs) Name() string {
	return "paragraphs"
}

// Extract parses the document and concatenates paragraph text.
func (Paragraphs) Extract(body io.Reader, _ *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	parts := make([]string, 0)
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, p.Text())
	})

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

package extraction

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Readability extracts the main article body the way reader views do.
type Readability struct{}

// Name identifies the strategy inside the registry.
func (Readability) Name() string {
	return "readability"
}

// Extract runs the readability heuristics and returns the text content.
func (Readability) Extract(body io.Reader, pageURL *url.URL) (string, error) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(body, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	return strings.Join(strings.Fields(article.TextContent), " "), nil
}

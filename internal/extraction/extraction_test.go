package extraction

import (
	"net/url"
	"strings"
	"testing"
)

func TestParagraphsExtract(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	  <h1>Headline</h1>
	  <p>First paragraph.</p>
	  <div><p>Second <b>bold</b> paragraph.</p></div>
	  <span>ignored</span>
	</body></html>`

	text, err := Paragraphs{}.Extract(strings.NewReader(html), nil)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	want := "First paragraph. Second bold paragraph."
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestParagraphsExtractNoParagraphs(t *testing.T) {
	t.Parallel()

	text, err := Paragraphs{}.Extract(strings.NewReader(`<div>only divs</div>`), nil)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestReadabilityExtract(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("The council approved the new transit plan after a long debate. ", 20)
	html := `<html><head><title>Transit</title></head><body>
	  <nav><a href="/">Home</a></nav>
	  <article><h1>Transit plan approved</h1><p>` + body + `</p><p>` + body + `</p></article>
	</body></html>`

	pageURL, _ := url.Parse("https://example.com/news/transit")
	text, err := Readability{}.Extract(strings.NewReader(html), pageURL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(text, "The council approved the new transit plan") {
		t.Fatalf("article body missing from %q", text)
	}
	if strings.Contains(text, "  ") {
		t.Fatalf("expected collapsed whitespace, got %q", text)
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	for _, name := range []string{"paragraphs", "readability"} {
		s, err := reg.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("resolved %s for %s", s.Name(), name)
		}
	}

	if _, err := reg.Resolve("colly"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "paragraphs" {
		t.Fatalf("unexpected names: %v", names)
	}
}

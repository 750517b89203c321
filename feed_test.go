package folio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/eringen/folio/markdown"
)

func feedFixture(t *testing.T) (*Catalog, SiteConfig) {
	t.Helper()
	fsys := contentFS(map[string]string{
		"older.mdx":        post("Older Post", "2022-01-15", "summary: The older one", "tags:", "  - go"),
		"newer/index.mdx":  post("Newer Post", "2023-06-01"),
		"middle/index.mdx": post("Middle Post", "2022-09-09"),
	})
	cat, skipped, err := BuildCatalog(fsys, CatalogOptions{})
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped files: %v", skipped)
	}
	cfg := SiteConfig{
		Name:        "Example Site",
		URL:         "https://example.com",
		Description: "A site about examples",
		Author:      "Jo Example",
		Copyright:   "© Jo Example",
	}
	return cat, cfg
}

func TestGenerateRSS(t *testing.T) {
	cat, cfg := feedFixture(t)
	out, err := GenerateRSS(cat, cfg, markdown.DefaultComponents())
	if err != nil {
		t.Fatalf("GenerateRSS failed: %v", err)
	}
	s := string(out)

	if !strings.HasPrefix(s, "<?xml") {
		t.Errorf("missing xml declaration: %q", s[:40])
	}
	for _, want := range []string{
		"<title>Example Site</title>",
		"<link>https://example.com/</link>",
		"<copyright>© Jo Example</copyright>",
		"<link>https://example.com/blog/newer/</link>",
		"<guid>https://example.com/blog/older/</guid>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("rss missing %q", want)
		}
	}

	// Items are ordered newest first, matching the catalog.
	newer := strings.Index(s, "Newer Post")
	middle := strings.Index(s, "Middle Post")
	older := strings.Index(s, "Older Post")
	if !(newer < middle && middle < older) {
		t.Errorf("items out of order: newer=%d middle=%d older=%d", newer, middle, older)
	}
}

func TestGenerateRSSIdempotent(t *testing.T) {
	cat, cfg := feedFixture(t)
	m := markdown.DefaultComponents()
	first, err := GenerateRSS(cat, cfg, m)
	if err != nil {
		t.Fatalf("GenerateRSS failed: %v", err)
	}
	second, err := GenerateRSS(cat, cfg, m)
	if err != nil {
		t.Fatalf("GenerateRSS failed on repeat: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("rss output differs between runs")
	}
}

func TestGenerateJSONFeed(t *testing.T) {
	cat, cfg := feedFixture(t)
	out, err := GenerateJSONFeed(cat, cfg, markdown.DefaultComponents())
	if err != nil {
		t.Fatalf("GenerateJSONFeed failed: %v", err)
	}

	var feed struct {
		Version     string `json:"version"`
		Title       string `json:"title"`
		HomePageURL string `json:"home_page_url"`
		FeedURL     string `json:"feed_url"`
		Authors     []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Items []struct {
			ID            string   `json:"id"`
			URL           string   `json:"url"`
			Title         string   `json:"title"`
			ContentHTML   string   `json:"content_html"`
			Summary       string   `json:"summary"`
			DatePublished string   `json:"date_published"`
			Tags          []string `json:"tags"`
		} `json:"items"`
	}
	if err := json.Unmarshal(out, &feed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if feed.Version != "https://jsonfeed.org/version/1.1" {
		t.Errorf("version = %q", feed.Version)
	}
	if feed.HomePageURL != "https://example.com/" {
		t.Errorf("home_page_url = %q", feed.HomePageURL)
	}
	if feed.FeedURL != "https://example.com/rss/feed.json" {
		t.Errorf("feed_url = %q", feed.FeedURL)
	}
	if len(feed.Authors) != 1 || feed.Authors[0].Name != "Jo Example" {
		t.Errorf("authors = %v", feed.Authors)
	}
	if len(feed.Items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "Newer Post" {
		t.Errorf("items[0].Title = %q, want newest first", first.Title)
	}
	if first.URL != "https://example.com/blog/newer/" || first.ID != first.URL {
		t.Errorf("items[0] url = %q id = %q", first.URL, first.ID)
	}
	if !strings.HasPrefix(first.DatePublished, "2023-06-01") {
		t.Errorf("items[0].DatePublished = %q", first.DatePublished)
	}
	if !strings.Contains(first.ContentHTML, "<p>") {
		t.Errorf("items[0].ContentHTML = %q, want rendered HTML", first.ContentHTML)
	}

	last := feed.Items[2]
	if last.Summary != "The older one" {
		t.Errorf("items[2].Summary = %q", last.Summary)
	}
	if len(last.Tags) != 1 || last.Tags[0] != "go" {
		t.Errorf("items[2].Tags = %v", last.Tags)
	}
}

func TestGenerateJSONFeedIdempotent(t *testing.T) {
	cat, cfg := feedFixture(t)
	m := markdown.DefaultComponents()
	first, err := GenerateJSONFeed(cat, cfg, m)
	if err != nil {
		t.Fatalf("GenerateJSONFeed failed: %v", err)
	}
	second, err := GenerateJSONFeed(cat, cfg, m)
	if err != nil {
		t.Fatalf("GenerateJSONFeed failed on repeat: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("json feed output differs between runs")
	}
}

func TestGenerateRSSRenderErrorPropagates(t *testing.T) {
	fsys := contentFS(map[string]string{
		"broken.mdx": "---\ntitle: Broken\ndate: 2023-01-01\n---\n<Newsletter id=\"x\" />\n",
	})
	cat, _, err := BuildCatalog(fsys, CatalogOptions{})
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}
	if _, err := GenerateRSS(cat, SiteConfig{URL: "https://example.com"}, markdown.DefaultComponents()); err == nil {
		t.Fatal("want render error for unmapped embed, got nil")
	}
}

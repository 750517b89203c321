package folio

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/folio/markdown"
)

// Feed output locations relative to the static root.
const (
	FeedXMLPath  = "rss/feed.xml"
	FeedJSONPath = "rss/feed.json"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Copyright   string    `xml:"copyright,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"` // rendered HTML of the post body
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Author      string `xml:"author,omitempty"`
}

type jsonFeed struct {
	Version     string       `json:"version"`
	Title       string       `json:"title"`
	HomePageURL string       `json:"home_page_url"`
	FeedURL     string       `json:"feed_url"`
	Description string       `json:"description,omitempty"`
	Authors     []jsonAuthor `json:"authors,omitempty"`
	Items       []jsonItem   `json:"items"`
}

type jsonAuthor struct {
	Name string `json:"name"`
}

type jsonItem struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	ContentHTML   string   `json:"content_html"`
	Summary       string   `json:"summary,omitempty"`
	DatePublished string   `json:"date_published"`
	Tags          []string `json:"tags,omitempty"`
}

// GenerateRSS serializes the catalog as an RSS 2.0 document. Output is a
// pure function of the catalog and cfg: no clocks, no ambient state, so an
// unchanged catalog yields byte-identical bytes.
func GenerateRSS(cat *Catalog, cfg SiteConfig, m *markdown.ComponentMap) ([]byte, error) {
	items := make([]rssItem, 0, cat.Len())
	for _, p := range cat.List(0) {
		html, err := markdown.RenderHTML(p.Body, m)
		if err != nil {
			return nil, fmt.Errorf("feed: render %s: %w", p.Slug, err)
		}
		link := PostURL(cfg.URL, p)
		items = append(items, rssItem{
			Title:       p.Meta.Title,
			Link:        link,
			Description: html,
			PubDate:     p.Meta.Date.Format(time.RFC1123Z),
			GUID:        link,
			Author:      cfg.Author,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        BuildURL(cfg.URL),
			Description: cfg.Description,
			Copyright:   cfg.Copyright,
			Items:       items,
		},
	}
	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed: marshal rss: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// GenerateJSONFeed serializes the catalog as a JSON Feed 1.1 document, with
// the same determinism guarantee as GenerateRSS.
func GenerateJSONFeed(cat *Catalog, cfg SiteConfig, m *markdown.ComponentMap) ([]byte, error) {
	items := make([]jsonItem, 0, cat.Len())
	for _, p := range cat.List(0) {
		html, err := markdown.RenderHTML(p.Body, m)
		if err != nil {
			return nil, fmt.Errorf("feed: render %s: %w", p.Slug, err)
		}
		link := PostURL(cfg.URL, p)
		items = append(items, jsonItem{
			ID:            link,
			URL:           link,
			Title:         p.Meta.Title,
			ContentHTML:   html,
			Summary:       p.Meta.Summary,
			DatePublished: p.Meta.Date.Format(time.RFC3339),
			Tags:          p.Meta.Tags,
		})
	}
	feed := jsonFeed{
		Version:     "https://jsonfeed.org/version/1.1",
		Title:       cfg.Name,
		HomePageURL: BuildURL(cfg.URL),
		FeedURL:     cfg.URL + "/" + FeedJSONPath,
		Description: cfg.Description,
		Items:       items,
	}
	if cfg.Author != "" {
		feed.Authors = []jsonAuthor{{Name: cfg.Author}}
	}
	out, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed: marshal json: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteFeeds generates both feed serializations under dir, creating the
// rss/ subdirectory as needed. Build pipelines call this once per build.
func WriteFeeds(cat *Catalog, cfg SiteConfig, m *markdown.ComponentMap, dir string) error {
	rss, err := GenerateRSS(cat, cfg, m)
	if err != nil {
		return err
	}
	jf, err := GenerateJSONFeed(cat, cfg, m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "rss"), 0o755); err != nil {
		return fmt.Errorf("feed: create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(FeedXMLPath)), rss, 0o644); err != nil {
		return fmt.Errorf("feed: write rss: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(FeedJSONPath)), jf, 0o644); err != nil {
		return fmt.Errorf("feed: write json: %w", err)
	}
	return nil
}

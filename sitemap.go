package folio

import (
	"encoding/xml"
	"fmt"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// GenerateSitemap serializes the catalog as a sitemap.xml document: the
// home page plus one entry per post. Like the feeds, output depends only
// on the catalog and cfg.
func GenerateSitemap(cat *Catalog, cfg SiteConfig) ([]byte, error) {
	urls := []sitemapURL{
		{Loc: BuildURL(cfg.URL)},
	}
	for _, p := range cat.List(0) {
		lastMod := p.Meta.Date
		if !p.Meta.Updated.IsZero() {
			lastMod = p.Meta.Updated
		}
		urls = append(urls, sitemapURL{
			Loc:     PostURL(cfg.URL, p),
			LastMod: lastMod.Format("2006-01-02"),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshal: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

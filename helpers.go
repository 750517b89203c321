package folio

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL returns the absolute canonical URL for a post.
func PostURL(base string, p Post) string {
	return BuildURL(base, "blog", p.Slug)
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// relativeUnits are walked smallest to largest; each divisor converts the
// previous unit into the next.
var relativeUnits = []struct {
	name    string
	divisor int64
}{
	{"minute", 60},
	{"hour", 60},
	{"day", 24},
	{"week", 7},
	{"year", 52},
}

// RelativeDate renders t relative to now: "3 days ago", "in 2 weeks",
// "1 year ago". Sub-minute distances collapse to "just now".
func RelativeDate(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	future := secs < 0
	if future {
		secs = -secs
	}
	unit := "second"
	length := secs
	for _, u := range relativeUnits {
		next := length / u.divisor
		if next < 1 {
			break
		}
		unit = u.name
		length = next
	}
	if unit == "second" {
		return "just now"
	}
	plural := ""
	if length != 1 {
		plural = "s"
	}
	if future {
		return fmt.Sprintf("in %d %s%s", length, unit, plural)
	}
	return fmt.Sprintf("%d %s%s ago", length, unit, plural)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post Post, cfg SiteConfig) string {
	postURL := PostURL(cfg.URL, post)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Meta.Title,
		"description":   post.Meta.Summary,
		"datePublished": post.Meta.Date.Format("2006-01-02"),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Meta.Tags) > 0 {
		data["keywords"] = strings.Join(post.Meta.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

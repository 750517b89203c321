package folio

import (
	"github.com/eringen/folio/frontmatter"
)

// ContentFile is a raw content artifact: a path relative to the content
// root plus the file's bytes. Read once per build, never mutated.
type ContentFile struct {
	Path string
	Raw  []byte
}

// Post is the aggregate content entity the catalog owns: a routing slug,
// validated metadata, and the raw body. Posts are immutable after the
// catalog build that created them.
type Post struct {
	Slug string
	Meta frontmatter.FrontMatter
	Body string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

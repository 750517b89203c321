package folio

import (
	"path"
	"strings"

	"github.com/eringen/folio/frontmatter"
)

// SlugFunc overrides slug derivation for a single entry, e.g. to compute the
// slug from metadata instead of the file path. The result is used verbatim.
type SlugFunc func(file ContentFile, meta frontmatter.FrontMatter) string

// ResolveSlug maps a content file path to its canonical routing slug: the
// extension is stripped, and a trailing "index" segment is elided so the
// directory name becomes the terminal component.
//
//	hello-world/index.mdx -> hello-world
//	notes/first.md        -> notes/first
func ResolveSlug(p string) string {
	p = strings.TrimSuffix(path.Clean(p), path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "/" {
		return ""
	}
	return strings.Trim(p, "/")
}

// Slugify converts free text, usually a title, to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

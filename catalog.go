package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/eringen/folio/frontmatter"
)

// CatalogOptions tune a catalog build. The zero value validates against the
// current schema and derives slugs from file paths.
type CatalogOptions struct {
	Schema frontmatter.Schema // 0 means frontmatter.CurrentSchema
	Slug   SlugFunc           // optional per-entry override
	Logger *slog.Logger       // nil means slog.Default()
}

// Catalog is an ordered collection of posts, sorted by date descending.
// It is rebuilt wholesale on every build and never patched incrementally;
// once built it is read-only and safe for concurrent use.
type Catalog struct {
	posts  []Post
	bySlug map[string]int
	tags   []string
}

// BuildCatalog discovers, validates, slugs, and sorts all content under
// fsys. Files that fail front-matter validation are logged, reported in
// skipped, and omitted; the rest of the build proceeds. A slug collision
// aborts the build with a CollisionError naming both files.
func BuildCatalog(fsys fs.FS, opts CatalogOptions) (cat *Catalog, skipped []error, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	schema := opts.Schema
	if schema == 0 {
		schema = frontmatter.CurrentSchema
	}

	files, err := DiscoverContent(fsys)
	if err != nil {
		return nil, nil, err
	}

	cat = &Catalog{bySlug: make(map[string]int, len(files))}
	source := make(map[string]string, len(files))
	for _, file := range files {
		meta, body, perr := frontmatter.ParseSchema(file.Raw, schema)
		if perr != nil {
			var verr *frontmatter.ValidationError
			if errors.As(perr, &verr) {
				logger.Warn("skipping invalid content file", "path", file.Path, "field", verr.Field, "reason", verr.Reason)
			} else {
				logger.Warn("skipping unreadable content file", "path", file.Path, "error", perr)
			}
			skipped = append(skipped, fmt.Errorf("%s: %w", file.Path, perr))
			continue
		}

		slug := ""
		if opts.Slug != nil {
			slug = opts.Slug(file, meta)
		}
		if slug == "" {
			slug = ResolveSlug(file.Path)
		}
		if prev, ok := source[slug]; ok {
			return nil, skipped, &CollisionError{Slug: slug, FileA: prev, FileB: file.Path}
		}
		source[slug] = file.Path

		cat.posts = append(cat.posts, Post{Slug: slug, Meta: meta, Body: string(body)})
	}

	// Date descending; equal dates keep discovery order.
	sort.SliceStable(cat.posts, func(i, j int) bool {
		return cat.posts[i].Meta.Date.After(cat.posts[j].Meta.Date)
	})
	for i, p := range cat.posts {
		cat.bySlug[p.Slug] = i
	}
	cat.tags = collectTags(cat.posts)
	return cat, skipped, nil
}

// List returns posts newest-first. A positive limit truncates to the most
// recent entries, order preserved.
func (c *Catalog) List(limit int) []Post {
	if limit <= 0 || limit >= len(c.posts) {
		return c.posts
	}
	return c.posts[:limit]
}

// ByTag filters posts by exact tag membership, preserving catalog order.
func (c *Catalog) ByTag(tag string) []Post {
	normalized := normalizeTag(tag)
	var out []Post
	for _, p := range c.posts {
		for _, t := range p.Meta.Tags {
			if normalizeTag(t) == normalized {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Get returns the post routed by slug.
func (c *Catalog) Get(slug string) (Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}

// Tags returns all unique tags across the catalog, sorted.
func (c *Catalog) Tags() []string {
	return c.tags
}

// Len reports the number of posts in the catalog.
func (c *Catalog) Len() int {
	return len(c.posts)
}

// Related finds posts sharing at least one tag with current, newest first.
func (c *Catalog) Related(current Post) []Post {
	tagSet := make(map[string]struct{}, len(current.Meta.Tags))
	for _, t := range current.Meta.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range c.posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Meta.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

func collectTags(posts []Post) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Meta.Tags {
			tag := normalizeTag(t)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

package folio

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/frontmatter"
	"github.com/eringen/folio/markdown"
)

// SiteConfig holds all site-level configuration. Feed and social-card
// generation read author, URL, and copyright from here rather than from
// ambient process state, so both stay independently testable.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for feeds and meta tags
	Author      string `yaml:"author"`      // Author name for feeds and JSON-LD
	Copyright   string `yaml:"copyright"`   // Copyright line for feeds

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Content root (default "content")

	OGLabel string `yaml:"og_label"` // Bottom-right label on social cards, "" to omit
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
}

// LoadSiteConfig reads a YAML site configuration file. A missing file is not
// an error; defaults apply.
func LoadSiteConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.setDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("folio: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("folio: parse config %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithComponentMap replaces the default render component map.
func WithComponentMap(m *markdown.ComponentMap) Option {
	return func(a *App) {
		a.Components = m
	}
}

// WithViews installs caller-owned page templates. Zero fields keep the
// built-in minimal views.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithSlugFunc installs a per-entry slug override. The returned value is
// used verbatim and still checked for catalog-wide uniqueness.
func WithSlugFunc(fn SlugFunc) Option {
	return func(a *App) {
		a.slugFn = fn
	}
}

// WithSchema validates content against an explicit front-matter schema
// version instead of the current one.
func WithSchema(s frontmatter.Schema) Option {
	return func(a *App) {
		a.schema = s
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}

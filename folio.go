// Package folio is a file-based blog and portfolio engine built with Go,
// Echo, and templ. It turns a directory of Markdown content files with YAML
// front matter into a served site: validated and slugged posts, a sorted
// catalog, a component-based render pipeline, RSS/JSON feeds, a sitemap,
// and generated social-card images.
//
// Users provide their own templ components via ViewFuncs and a render
// ComponentMap; folio handles discovery, validation, routing, and feeds.
package folio

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/frontmatter"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/ogimage"
)

// App is the central folio application. It wires together the content
// library, render components, handlers, middleware, and user templates.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Library    *Library
	Components *markdown.ComponentMap
	Views      ViewFuncs
	OG         *ogimage.Generator

	slugFn       SlugFunc
	schema       frontmatter.Schema
	customRoutes []func(*App)
	staticDir    string
	initialized  bool
}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:     cfg,
		Echo:       echo.New(),
		Components: markdown.DefaultComponents(),
		staticDir:  "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	a.Views = a.Views.withDefaults()

	return a
}

// Start builds the catalog, initializes the social-card generator, sets up
// middleware and routes, and starts the server. Per-file validation errors
// are logged and skipped; a slug collision aborts startup.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Init prepares the App without starting the server. Serve loops that
// manage their own listener, and tests, call this directly; calling it
// again is a no-op.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Library == nil {
		a.Library = NewLibrary(os.DirFS(a.Config.ContentDir), CatalogOptions{
			Schema: a.schema,
			Slug:   a.slugFn,
		})
	}
	skipped, err := a.Library.Reload()
	if err != nil {
		return fmt.Errorf("folio: build catalog: %w", err)
	}
	for _, serr := range skipped {
		slog.Warn("content file excluded from catalog", "error", serr)
	}

	og, err := ogimage.New(a.Config.OGLabel)
	if err != nil {
		return fmt.Errorf("folio: init social cards: %w", err)
	}
	a.OG = og

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss/feed.xml", a.handleFeedXML)
	e.GET("/rss/feed.json", a.handleFeedJSON)
	e.GET("/og/image.png", a.handleOGImage)
	e.GET("/blog/", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
}

// Close shuts the HTTP server down.
func (a *App) Close() error {
	return a.Echo.Close()
}

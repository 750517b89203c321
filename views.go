package folio

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/folio/markdown"
)

// ViewFuncs holds caller-provided templ components for the page shells.
// This is the inversion-of-control mechanism that lets users own all
// visual templates; any nil field falls back to a minimal built-in view,
// so the engine also runs standalone.
type ViewFuncs struct {
	Home        func(posts []Post, activeTag string, tags []string, cfg SiteConfig) templ.Component
	Post        func(post Post, body templ.Component, cfg SiteConfig) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	if v.Home == nil {
		v.Home = defaultHome
	}
	if v.Post == nil {
		v.Post = defaultPost
	}
	if v.NotFound == nil {
		v.NotFound = defaultNotFound
	}
	if v.ServerError == nil {
		v.ServerError = defaultServerError
	}
	return v
}

func page(title string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"/><title>"+html.EscapeString(title)+"</title></head><body>"); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func defaultHome(posts []Post, activeTag string, tags []string, cfg SiteConfig) templ.Component {
	return page(cfg.Name, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>"+html.EscapeString(cfg.Name)+"</h1><ul>"); err != nil {
			return err
		}
		for _, p := range posts {
			line := `<li><a href="/blog/` + p.Slug + `/">` + html.EscapeString(p.Meta.Title) + `</a> <time>` + p.Meta.Date.Format("2006-01-02") + `</time></li>`
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>")
		return err
	})
}

func defaultPost(post Post, body templ.Component, cfg SiteConfig) templ.Component {
	return page(post.Meta.Title+" | "+cfg.Name, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>"+html.EscapeString(post.Meta.Title)+"</h1>"); err != nil {
			return err
		}
		return body.Render(ctx, w)
	})
}

func defaultNotFound() templ.Component {
	return page("Not Found", func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>404</h1><p>Page not found.</p>")
		return err
	})
}

func defaultServerError() templ.Component {
	return page("Server Error", func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>500</h1><p>Something went wrong.</p>")
		return err
	})
}

// PostBody compiles a post's body and applies the wrapper layout; page
// views embed the result.
func (a *App) PostBody(post Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		blocks, err := markdown.Compile(post.Body)
		if err != nil {
			return err
		}
		return markdown.RenderLayout(blocks, a.Components, markdown.LayoutPost).Render(ctx, w)
	})
}

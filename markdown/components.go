package markdown

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Component is a rendering capability for a single tag: it receives the
// node's original attributes plus its children and returns the replacement
// markup.
type Component func(attrs Attrs, children templ.Component) templ.Component

// Layout identifies one of the closed set of page layouts a wrapper can
// select. Layout selection is a switch over this enum rather than a lookup
// of arbitrary names.
type Layout int

const (
	// LayoutPost is the full article layout with title, date, and tags.
	LayoutPost Layout = iota
	// LayoutSimple is a bare prose layout for standalone pages.
	LayoutSimple
)

// ComponentMap maps element tags to rendering capabilities. It is built
// once at startup, never mutated afterwards, and shared by every render.
type ComponentMap struct {
	Tags map[string]Component
	// Wrapper receives the fully compiled body plus a layout identifier
	// and applies the outer page chrome.
	Wrapper func(layout Layout, content templ.Component) templ.Component
}

// DefaultComponents returns the component map the stock site uses: heading
// accents, hardened links, and the rich embeds posts rely on.
func DefaultComponents() *ComponentMap {
	return &ComponentMap{
		Tags: map[string]Component{
			"h2":          headingH2,
			"Tweet":       tweetEmbed,
			"YouTube":     youTubeEmbed,
			"Gist":        gistEmbed,
			"CodeSandbox": codeSandboxEmbed,
			"TOCInline":   tocInline,
		},
		Wrapper: defaultWrapper,
	}
}

func raw(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func fail(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return err
	})
}

func headingH2(attrs Attrs, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h2 class="text-transparent bg-clip-text bg-gradient-to-br from-pink-400 to-red-600">`); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</h2>")
		return err
	})
}

// tweetEmbed renders a tweet as a blockquote the platform widget script
// upgrades in the browser.
func tweetEmbed(attrs Attrs, children templ.Component) templ.Component {
	link := attrs.Get("tweetLink")
	if link == "" {
		link = attrs.Get("id")
	}
	if !strings.HasPrefix(link, "https://") {
		link = "https://twitter.com/" + link
	}
	href := SafeURL(link)
	if attrs.Get("tweetLink") == "" && attrs.Get("id") == "" || href == "" {
		return fail(&RenderError{Tag: "Tweet", Reason: "missing or invalid tweetLink argument"})
	}
	return raw(`<blockquote class="twitter-tweet" data-theme="dark" data-conversation="none" align="center"><a href="` + href + `"></a></blockquote>`)
}

func youTubeEmbed(attrs Attrs, children templ.Component) templ.Component {
	id := attrs.Get("id")
	if id == "" || SafeURL("https://www.youtube.com/embed/"+id) == "" {
		return fail(&RenderError{Tag: "YouTube", Reason: "missing or invalid id argument"})
	}
	src := html.EscapeString("https://www.youtube.com/embed/" + id)
	return raw(`<div class="embed-video"><iframe src="` + src + `" title="YouTube video" loading="lazy" allowfullscreen></iframe></div>`)
}

func gistEmbed(attrs Attrs, children templ.Component) templ.Component {
	id := attrs.Get("id")
	href := SafeURL("https://gist.github.com/" + id)
	if id == "" || href == "" {
		return fail(&RenderError{Tag: "Gist", Reason: "missing or invalid id argument"})
	}
	return raw(`<script src="` + href + `.js"></script>`)
}

func codeSandboxEmbed(attrs Attrs, children templ.Component) templ.Component {
	id := attrs.Get("id")
	if id == "" || SafeURL("https://codesandbox.io/embed/"+id) == "" {
		return fail(&RenderError{Tag: "CodeSandbox", Reason: "missing or invalid id argument"})
	}
	src := html.EscapeString("https://codesandbox.io/embed/" + id)
	return raw(`<div class="embed-sandbox"><iframe src="` + src + `" title="CodeSandbox" loading="lazy" sandbox="allow-scripts allow-same-origin"></iframe></div>`)
}

// tocInline passes the derived outline through unchanged; children already
// contain the document's heading list.
func tocInline(attrs Attrs, children templ.Component) templ.Component {
	return children
}

func defaultWrapper(layout Layout, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var opening, closing string
		switch layout {
		case LayoutSimple:
			opening, closing = `<article class="prose">`, `</article>`
		default:
			opening, closing = `<article class="prose post">`, `</article>`
		}
		if _, err := io.WriteString(w, opening); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, closing)
		return err
	})
}

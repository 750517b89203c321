// Package markdown compiles a post body into a sequence of block nodes and
// renders it as a templ component. Rendering consults a ComponentMap: blocks
// whose tag has a mapped capability are rendered by it, everything else
// falls back to plain HTML. Compilation is deterministic: the same body and
// the same map always produce identical output.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// Block is a single compiled node of a post body.
type Block struct {
	Tag    string // "h1".."h3", "p", "ul", "ol", "blockquote", "pre", "hr", "table", or an embed name
	ID     string // anchor id, headings only
	Text   string // inline content for headings, paragraphs, quotes
	Items  []string
	Code   string // pre contents, never inline-formatted
	Lang   string
	Header []string
	Rows   [][]string
	Attrs  Attrs // embed attributes
}

// Attr is a single embed attribute. Attrs preserve source order so rendered
// output stays byte-stable.
type Attr struct {
	Key   string
	Value string
}

// Attrs is the ordered attribute list of an embed node.
type Attrs []Attr

// Get returns the value for key, or "" when absent.
func (a Attrs) Get(key string) string {
	for _, at := range a {
		if at.Key == key {
			return at.Value
		}
	}
	return ""
}

// RenderError reports a body that cannot be compiled or an embed that cannot
// be resolved. It is scoped to a single post; other posts render unaffected.
type RenderError struct {
	Tag    string
	Reason string
}

func (e *RenderError) Error() string {
	if e.Tag == "" {
		return "render: " + e.Reason
	}
	return fmt.Sprintf("render: <%s>: %s", e.Tag, e.Reason)
}

// An embed is a capitalized self-closing component tag on its own line,
// e.g. <YouTube id="dQw4w9WgXcQ" />.
var (
	reEmbed     = regexp.MustCompile(`^<([A-Z][A-Za-z0-9]*)((?:\s+[a-zA-Z][\w-]*="[^"]*")*)\s*/>\s*$`)
	reEmbedAttr = regexp.MustCompile(`([a-zA-Z][\w-]*)="([^"]*)"`)
	reEmbedOpen = regexp.MustCompile(`^<[A-Z]`)

	reOrderedItem = regexp.MustCompile(`^(\d+)\.\s`)
)

// Compile parses body into a sequence of blocks. A malformed embed line
// fails with RenderError; everything else is ordinary markdown and cannot
// fail.
func Compile(body string) ([]Block, error) {
	var blocks []Block

	var para []string
	var items []string
	var quote []string
	var code []string
	var header []string
	var rows [][]string
	inCode := false
	codeLang := ""
	listTag := ""
	inTable := false

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, Block{Tag: "p", Text: strings.Join(para, " ")})
			para = nil
		}
	}
	flushList := func() {
		if len(items) > 0 {
			blocks = append(blocks, Block{Tag: listTag, Items: items})
			items = nil
			listTag = ""
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			blocks = append(blocks, Block{Tag: "blockquote", Text: strings.Join(quote, " ")})
			quote = nil
		}
	}
	flushTable := func() {
		if inTable {
			blocks = append(blocks, Block{Tag: "table", Header: header, Rows: rows})
			header = nil
			rows = nil
			inTable = false
		}
	}
	flushAll := func() {
		flushPara()
		flushList()
		flushQuote()
		flushTable()
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if inCode {
				blocks = append(blocks, Block{Tag: "pre", Code: strings.Join(code, "\n"), Lang: codeLang})
				code = nil
				inCode = false
				codeLang = ""
			} else {
				flushAll()
				inCode = true
				codeLang = strings.TrimSpace(line[3:])
			}
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushAll()
			continue
		}

		if reEmbedOpen.MatchString(line) {
			flushAll()
			m := reEmbed.FindStringSubmatch(line)
			if m == nil {
				name := strings.Trim(strings.Fields(line)[0], "</>")
				return nil, &RenderError{Tag: name, Reason: "malformed embed arguments"}
			}
			var attrs Attrs
			for _, am := range reEmbedAttr.FindAllStringSubmatch(m[2], -1) {
				attrs = append(attrs, Attr{Key: am[1], Value: am[2]})
			}
			blocks = append(blocks, Block{Tag: m[1], Attrs: attrs})
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			flushAll()
			text := strings.TrimSpace(line[4:])
			blocks = append(blocks, Block{Tag: "h3", ID: anchorID(text), Text: text})
		case strings.HasPrefix(line, "## "):
			flushAll()
			text := strings.TrimSpace(line[3:])
			blocks = append(blocks, Block{Tag: "h2", ID: anchorID(text), Text: text})
		case strings.HasPrefix(line, "# "):
			flushAll()
			text := strings.TrimSpace(line[2:])
			blocks = append(blocks, Block{Tag: "h1", ID: anchorID(text), Text: text})
		case strings.HasPrefix(line, "---"):
			flushAll()
			blocks = append(blocks, Block{Tag: "hr"})
		case strings.HasPrefix(line, "|"):
			flushPara()
			flushList()
			flushQuote()
			cells := parseTableCells(line)
			switch {
			case !inTable:
				inTable = true
				header = cells
			case isTableSeparator(line):
				// |---|---| between header and body
			default:
				rows = append(rows, cells)
			}
		case strings.HasPrefix(line, "- "):
			if listTag != "ul" {
				flushAll()
				listTag = "ul"
			}
			items = append(items, strings.TrimSpace(line[2:]))
		case reOrderedItem.MatchString(line):
			if listTag != "ol" {
				flushAll()
				listTag = "ol"
			}
			items = append(items, strings.TrimSpace(reOrderedItem.ReplaceAllString(line, "")))
		case strings.HasPrefix(line, "> "):
			flushPara()
			flushList()
			flushTable()
			quote = append(quote, strings.TrimSpace(line[2:]))
		default:
			flushList()
			flushQuote()
			flushTable()
			para = append(para, strings.TrimSpace(line))
		}
	}
	if inCode {
		blocks = append(blocks, Block{Tag: "pre", Code: strings.Join(code, "\n"), Lang: codeLang})
	}
	flushAll()
	return blocks, nil
}

// Embed reports whether the block is an embed node rather than plain markup.
func (b Block) Embed() bool {
	return b.Tag != "" && b.Tag[0] >= 'A' && b.Tag[0] <= 'Z'
}

// Render turns compiled blocks into a templ component using m for tag
// substitution. Embed blocks with no capability in m fail the render with
// RenderError.
func Render(blocks []Block, m *ComponentMap) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, b := range blocks {
			if err := renderBlock(ctx, w, b, blocks, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderLayout renders blocks and hands the result to the map's wrapper
// capability, which selects the outer page layout for the given identifier.
// Without a wrapper the bare content component is returned, so the same
// compiled body can be embedded in different layouts without recompiling.
func RenderLayout(blocks []Block, m *ComponentMap, layout Layout) templ.Component {
	content := Render(blocks, m)
	if m != nil && m.Wrapper != nil {
		return m.Wrapper(layout, content)
	}
	return content
}

// Markdown compiles and renders content in one step, the form most page
// handlers want. Compile errors surface when the component renders.
func Markdown(content string, m *ComponentMap) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		blocks, err := Compile(content)
		if err != nil {
			return err
		}
		return Render(blocks, m).Render(ctx, w)
	})
}

// RenderHTML compiles and renders body to an HTML string. Feeds use this to
// inline full post content.
func RenderHTML(body string, m *ComponentMap) (string, error) {
	blocks, err := Compile(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Render(blocks, m).Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderBlock(ctx context.Context, w io.Writer, b Block, all []Block, m *ComponentMap) error {
	if m != nil {
		if component, ok := m.Tags[b.Tag]; ok {
			return component(b.Attrs, childrenOf(b, all)).Render(ctx, w)
		}
	}
	if b.Embed() {
		return &RenderError{Tag: b.Tag, Reason: "no component registered for embed"}
	}
	return defaultComponent(b).Render(ctx, w)
}

// childrenOf builds the component a capability receives as its children:
// the block's default inner content. TOC embeds receive the document
// outline instead, since their content derives from sibling headings.
func childrenOf(b Block, all []Block) templ.Component {
	if b.Tag == "TOCInline" {
		return tocComponent(all)
	}
	return innerComponent(b)
}

// innerComponent renders a block's content without its outer tag, so mapped
// capabilities can wrap it in their own markup.
func innerComponent(b Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeInner(&buf, b)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func defaultComponent(b Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeBlock(&buf, b)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeBlock(buf *bytes.Buffer, b Block) {
	switch b.Tag {
	case "h1", "h2", "h3":
		buf.WriteString("<" + b.Tag)
		if b.ID != "" {
			buf.WriteString(` id="` + b.ID + `"`)
		}
		buf.WriteString(">")
		buf.WriteString(FormatInline(b.Text))
		buf.WriteString("</" + b.Tag + ">")
	case "hr":
		buf.WriteString("<hr/>")
	case "ul", "ol":
		buf.WriteString("<" + b.Tag + ">")
		writeInner(buf, b)
		buf.WriteString("</" + b.Tag + ">")
	case "blockquote":
		buf.WriteString("<blockquote>")
		buf.WriteString(FormatInline(b.Text))
		buf.WriteString("</blockquote>")
	case "pre":
		if b.Lang != "" {
			lang := html.EscapeString(b.Lang)
			buf.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
		} else {
			buf.WriteString(`<pre class="code-block"><code>`)
		}
		writeInner(buf, b)
		buf.WriteString("</code></pre>")
	case "table":
		buf.WriteString("<table>")
		writeInner(buf, b)
		buf.WriteString("</table>")
	default:
		buf.WriteString("<p>")
		buf.WriteString(FormatInline(b.Text))
		buf.WriteString("</p>")
	}
}

// writeInner emits a block's content without the enclosing tag.
func writeInner(buf *bytes.Buffer, b Block) {
	switch b.Tag {
	case "ul", "ol":
		for _, it := range b.Items {
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(it))
			buf.WriteString("</li>")
		}
	case "pre":
		buf.WriteString(html.EscapeString(b.Code))
		buf.WriteString("\n")
	case "table":
		buf.WriteString("<thead><tr>")
		for _, cell := range b.Header {
			buf.WriteString("<th>")
			buf.WriteString(FormatInline(cell))
			buf.WriteString("</th>")
		}
		buf.WriteString("</tr></thead><tbody>")
		for _, row := range b.Rows {
			buf.WriteString("<tr>")
			for _, cell := range row {
				buf.WriteString("<td>")
				buf.WriteString(FormatInline(cell))
				buf.WriteString("</td>")
			}
			buf.WriteString("</tr>")
		}
		buf.WriteString("</tbody>")
	default:
		buf.WriteString(FormatInline(b.Text))
	}
}

func tocComponent(all []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<ul class="toc">`)
		for _, b := range all {
			if b.Tag == "h2" || b.Tag == "h3" {
				buf.WriteString(`<li class="toc-` + b.Tag + `"><a href="#` + b.ID + `">`)
				buf.WriteString(FormatInline(b.Text))
				buf.WriteString("</a></li>")
			}
		}
		buf.WriteString("</ul>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func parseTableCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		cleaned := strings.ReplaceAll(strings.ReplaceAll(cell, "-", ""), ":", "")
		if cleaned != "" {
			return false
		}
	}
	return true
}

// anchorID derives a stable fragment id from heading text.
func anchorID(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	var b strings.Builder
	dash := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

package markdown

import (
	"errors"
	"strings"
	"testing"
)

func TestCompileHeadings(t *testing.T) {
	blocks, err := Compile("# Top\n\n## Section\n\n### Sub\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	want := []struct {
		tag, id, text string
	}{
		{"h1", "top", "Top"},
		{"h2", "section", "Section"},
		{"h3", "sub", "Sub"},
	}
	if len(blocks) != len(want) {
		t.Fatalf("len(blocks) = %d, want %d", len(blocks), len(want))
	}
	for i, w := range want {
		if blocks[i].Tag != w.tag || blocks[i].ID != w.id || blocks[i].Text != w.text {
			t.Errorf("blocks[%d] = %+v, want %+v", i, blocks[i], w)
		}
	}
}

func TestCompileParagraphJoinsLines(t *testing.T) {
	blocks, err := Compile("first line\nsecond line\n\nnext para\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0].Text != "first line second line" {
		t.Errorf("para = %q", blocks[0].Text)
	}
}

func TestCompileLists(t *testing.T) {
	blocks, err := Compile("- one\n- two\n\n1. first\n2. second\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0].Tag != "ul" || len(blocks[0].Items) != 2 {
		t.Errorf("blocks[0] = %+v, want ul with two items", blocks[0])
	}
	if blocks[1].Tag != "ol" || blocks[1].Items[1] != "second" {
		t.Errorf("blocks[1] = %+v, want ol", blocks[1])
	}
}

func TestCompileCodeFence(t *testing.T) {
	blocks, err := Compile("```go\nfmt.Println(\"hi\")\n```\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Tag != "pre" {
		t.Fatalf("blocks = %+v, want one pre", blocks)
	}
	if blocks[0].Lang != "go" {
		t.Errorf("Lang = %q, want go", blocks[0].Lang)
	}
	if blocks[0].Code != "fmt.Println(\"hi\")" {
		t.Errorf("Code = %q", blocks[0].Code)
	}
}

func TestCompileTable(t *testing.T) {
	blocks, err := Compile("| Name | Value |\n|------|-------|\n| a | 1 |\n| b | 2 |\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Tag != "table" {
		t.Fatalf("blocks = %+v, want one table", blocks)
	}
	if len(blocks[0].Header) != 2 || blocks[0].Header[0] != "Name" {
		t.Errorf("Header = %v", blocks[0].Header)
	}
	if len(blocks[0].Rows) != 2 || blocks[0].Rows[1][1] != "2" {
		t.Errorf("Rows = %v", blocks[0].Rows)
	}
}

func TestCompileEmbed(t *testing.T) {
	blocks, err := Compile(`<YouTube id="dQw4w9WgXcQ" />`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Tag != "YouTube" || !b.Embed() {
		t.Errorf("block = %+v, want YouTube embed", b)
	}
	if b.Attrs.Get("id") != "dQw4w9WgXcQ" {
		t.Errorf("id attr = %q", b.Attrs.Get("id"))
	}
}

func TestCompileEmbedAttrOrderPreserved(t *testing.T) {
	blocks, err := Compile(`<Tweet tweetLink="user/status/1" theme="dark" />`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	attrs := blocks[0].Attrs
	if len(attrs) != 2 || attrs[0].Key != "tweetLink" || attrs[1].Key != "theme" {
		t.Errorf("attrs = %+v, want source order", attrs)
	}
}

func TestCompileMalformedEmbed(t *testing.T) {
	tests := []string{
		`<YouTube id="unterminated />`,
		`<YouTube id=dQw4w9WgXcQ />`,
		`<Tweet`,
	}
	for _, body := range tests {
		_, err := Compile(body)
		var rerr *RenderError
		if !errors.As(err, &rerr) {
			t.Errorf("Compile(%q) err = %v, want RenderError", body, err)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	body := "# Title\n\nSome **bold** text.\n\n<YouTube id=\"abc\" />\n\n- item\n"
	first, err := Compile(body)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Compile(body)
		if err != nil {
			t.Fatalf("Compile failed on repeat: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("block count changed between compiles")
		}
		for j := range again {
			if again[j].Tag != first[j].Tag || again[j].Text != first[j].Text {
				t.Errorf("blocks[%d] changed between compiles", j)
			}
		}
	}
}

func TestRenderDefaultHTML(t *testing.T) {
	html, err := RenderHTML("## Hello\n\nA *nice* paragraph.\n", nil)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(html, `<h2 id="hello">Hello</h2>`) {
		t.Errorf("output missing heading: %q", html)
	}
	if !strings.Contains(html, "<em>nice</em>") {
		t.Errorf("output missing emphasis: %q", html)
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	body := "# T\n\ntext with [link](https://example.com) and `code`\n"
	m := DefaultComponents()
	first, err := RenderHTML(body, m)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := RenderHTML(body, m)
		if err != nil {
			t.Fatalf("RenderHTML failed on repeat: %v", err)
		}
		if again != first {
			t.Fatalf("output changed between renders")
		}
	}
}

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineCodeProtected(t *testing.T) {
	got := FormatInline("use `a_var_name` here")
	if !strings.Contains(got, "<code>a_var_name</code>") {
		t.Errorf("FormatInline = %q, want code content untouched", got)
	}
}

func TestFormatInlineLink(t *testing.T) {
	got := FormatInline("[text](https://example.com)")
	want := `<a href="https://example.com">text</a>`
	if got != want {
		t.Errorf("FormatInline = %q, want %q", got, want)
	}

	got = FormatInline("[ext](https://example.com)^")
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("caret link should open in a new tab: %q", got)
	}
}

func TestFormatInlineUnsafeURLDropped(t *testing.T) {
	got := FormatInline("[bad](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe URL survived: %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com"},
		{"/local/path", "/local/path"},
		{"#anchor", "#anchor"},
		{"javascript:alert(1)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.in); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

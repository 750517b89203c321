// Package ogimage rasterizes social-card preview images: a fixed 1200x630
// PNG with the post title centered on a dark background. Fonts are compiled
// into the binary, so a generator needs no filesystem access and produces
// identical bytes for identical input.
package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/golight"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card dimensions expected by link-preview crawlers.
const (
	Width  = 1200
	Height = 630
)

// DefaultTitle is rendered when a request carries no usable title.
const DefaultTitle = "Missing Title"

// titleSizes are tried largest-first until the wrapped title fits the card.
var titleSizes = []float64{96, 72, 56, 44}

const (
	footerSize  = 28
	margin      = 80
	footerInset = 60
)

var background = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}

// RenderError reports a title that could not be rasterized. The failure is
// scoped to one request; the generator stays usable.
type RenderError struct {
	Title string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ogimage: render %q: %v", e.Title, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Generator rasterizes cards with a fixed font family. Faces keep internal
// scratch buffers, so drawing is serialized with a mutex; Card is safe for
// concurrent use.
type Generator struct {
	mu     sync.Mutex
	title  map[float64]font.Face // bold face per candidate size
	footer font.Face
	label  string // optional bottom-right text, usually the site host
}

// New parses the embedded fonts and prepares the faces. label may be empty.
func New(label string) (*Generator, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse bold font: %w", err)
	}
	light, err := opentype.Parse(golight.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse light font: %w", err)
	}
	g := &Generator{title: make(map[float64]font.Face, len(titleSizes)), label: label}
	for _, size := range titleSizes {
		face, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("ogimage: build %gpx face: %w", size, err)
		}
		g.title[size] = face
	}
	g.footer, err = opentype.NewFace(light, &opentype.FaceOptions{Size: footerSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("ogimage: build footer face: %w", err)
	}
	return g, nil
}

// Card renders title into a PNG. An empty or whitespace title falls back to
// DefaultTitle, never an empty canvas.
func (g *Generator) Card(title string) ([]byte, error) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		title = DefaultTitle
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face, lines := g.fit(title)
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() * 5 / 4
	total := lineHeight * len(lines)

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	y := (Height-total)/2 + metrics.Ascent.Ceil()
	for _, line := range lines {
		w := d.MeasureString(line)
		d.Dot = fixed.Point26_6{X: fixed.I(Width/2) - w/2, Y: fixed.I(y)}
		d.DrawString(line)
		y += lineHeight
	}

	if g.label != "" {
		d.Face = g.footer
		w := d.MeasureString(g.label)
		d.Dot = fixed.Point26_6{X: fixed.I(Width-footerInset) - w, Y: fixed.I(Height - footerInset)}
		d.DrawString(g.label)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &RenderError{Title: title, Err: err}
	}
	return buf.Bytes(), nil
}

// fit picks the largest face whose wrapped title stays inside the card and
// returns that face with the wrapped lines. The smallest size is used even
// when it overflows; crawlers prefer a cramped card over an error.
func (g *Generator) fit(title string) (font.Face, []string) {
	maxWidth := fixed.I(Width - 2*margin)
	maxHeight := Height - 2*margin
	var face font.Face
	var lines []string
	for _, size := range titleSizes {
		face = g.title[size]
		lines = wrap(face, title, maxWidth)
		lineHeight := face.Metrics().Height.Ceil() * 5 / 4
		if lineHeight*len(lines) <= maxHeight {
			return face, lines
		}
	}
	return face, lines
}

// wrap greedily packs words into lines no wider than maxWidth. A single
// word wider than the limit gets its own line rather than being split.
func wrap(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	d := &font.Drawer{Face: face}
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if d.MeasureString(candidate) <= maxWidth || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

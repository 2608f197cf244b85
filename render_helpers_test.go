package pp5

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-pp5/internal/assets"
	"github.com/alnah/go-pp5/internal/layout"
)

// fixedTime is the clock used by generator tests.
var fixedTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

type drawnText struct {
	Page  int
	X, Y  float64
	Text  string
	Style layout.Style
}

type drawnImage struct {
	Page       int
	Name       string
	X, Y, W, H float64
}

// recordingCanvas records every drawing call per page.
type recordingCanvas struct {
	pages   int
	current int
	size    float64
	style   layout.Style

	texts  []drawnText
	images []drawnImage
	lines  int

	imageErr  map[string]error
	closeErr  error
	panicPage int // AddPage panics when this page is added
	onAddPage func(n int)
}

var _ canvas = (*recordingCanvas)(nil)

func (c *recordingCanvas) AddPage() {
	c.pages++
	c.current = c.pages
	if c.panicPage == c.pages {
		panic("page buffer exhausted")
	}
	if c.onAddPage != nil {
		c.onAddPage(c.pages)
	}
}

func (c *recordingCanvas) PageCount() int { return c.pages }

func (c *recordingCanvas) SetPage(n int) { c.current = n }

func (c *recordingCanvas) SetFont(style layout.Style, size float64) {
	c.style, c.size = style, size
}

func (c *recordingCanvas) SetTextColor(r, g, b int) {}

// TextWidth gives every rune a fifth of the font size.
func (c *recordingCanvas) TextWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * c.size * 0.2
}

func (c *recordingCanvas) Text(x, y float64, s string) {
	c.texts = append(c.texts, drawnText{Page: c.current, X: x, Y: y, Text: s, Style: c.style})
}

func (c *recordingCanvas) Line(x1, y1, x2, y2 float64) { c.lines++ }

func (c *recordingCanvas) Rect(x, y, w, h float64) {}

func (c *recordingCanvas) Image(name string, png []byte, x, y, w, h float64) error {
	if err := c.imageErr[name]; err != nil {
		return err
	}
	c.images = append(c.images, drawnImage{Page: c.current, Name: name, X: x, Y: y, W: w, H: h})
	return nil
}

func (c *recordingCanvas) Close(w io.Writer) error {
	if c.closeErr != nil {
		return c.closeErr
	}
	_, err := fmt.Fprintf(w, "%%PDF-fake pages=%d", c.pages)
	return err
}

// textsOn returns the text drawn on page n, in drawing order.
func (c *recordingCanvas) textsOn(n int) []string {
	var out []string
	for _, t := range c.texts {
		if t.Page == n {
			out = append(out, t.Text)
		}
	}
	return out
}

// pagesWith returns the pages on which text containing s was drawn.
func (c *recordingCanvas) pagesWith(s string) []int {
	var out []int
	seen := map[int]bool{}
	for _, t := range c.texts {
		if strings.Contains(t.Text, s) && !seen[t.Page] {
			seen[t.Page] = true
			out = append(out, t.Page)
		}
	}
	return out
}

func (c *recordingCanvas) imagesNamed(name string) []drawnImage {
	var out []drawnImage
	for _, img := range c.images {
		if img.Name == name {
			out = append(out, img)
		}
	}
	return out
}

// fakeEncoder records payloads and returns a fixed bitmap.
type fakeEncoder struct {
	payloads []string
	err      error
}

func (e *fakeEncoder) PNG(payload string) ([]byte, error) {
	e.payloads = append(e.payloads, payload)
	if e.err != nil {
		return nil, e.err
	}
	return []byte("qr:" + payload), nil
}

// stubLoader serves assets from maps.
type stubLoader struct {
	fonts  map[string][]byte
	images map[string][]byte
	fail   error // returned for every load when set
}

func (l stubLoader) LoadFont(name string) ([]byte, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	if data, ok := l.fonts[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFontNotFound, name)
}

func (l stubLoader) LoadImage(name string) ([]byte, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	if data, ok := l.images[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
}

// embeddedGlyphs returns the built-in verdict glyphs.
func embeddedGlyphs(t *testing.T) map[string][]byte {
	t.Helper()
	out := map[string][]byte{}
	for _, name := range []string{assets.ImagePass, assets.ImageFail} {
		data, err := assets.NewEmbeddedLoader().LoadImage(name)
		if err != nil {
			t.Fatalf("LoadImage(%q) error = %v", name, err)
		}
		out[name] = data
	}
	return out
}

// newTestGenerator wires a generator to a recording canvas and a fake
// encoder. Extra options are applied last.
func newTestGenerator(t *testing.T, c *recordingCanvas, enc *fakeEncoder, loader AssetLoader, opts ...Option) *Generator {
	t.Helper()
	if loader == nil {
		loader = stubLoader{}
	}
	base := []Option{
		withCanvas(func(*Resources, documentMeta) (canvas, error) { return c, nil }),
		withEncoder(enc),
		WithClock(func() time.Time { return fixedTime }),
		WithAssetLoader(loader),
	}
	g, err := NewGenerator(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

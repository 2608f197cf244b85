package pp5

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pp5/internal/assets"
	"github.com/alnah/go-pp5/internal/layout"
)

func TestFPDFCanvas_HelveticaWithoutTypeface(t *testing.T) {
	t.Parallel()

	c, err := newFPDFCanvas(nil, documentMeta{Title: DocumentTitle, Created: fixedTime}, zap.NewNop())
	if err != nil {
		t.Fatalf("newFPDFCanvas() error = %v", err)
	}
	if c.family != fallbackFamily {
		t.Errorf("family = %q, want %q", c.family, fallbackFamily)
	}

	c.AddPage()
	m := canvasMeasurer{c: c, size: bodySize}
	body := m.TextWidth(layout.StyleBody, "WWW")
	bold := m.TextWidth(layout.StyleHeader, "WWW")
	if body <= 0 || bold < body {
		t.Errorf("widths body=%v bold=%v, want bold >= body > 0", body, bold)
	}
}

func TestFPDFCanvas_Image(t *testing.T) {
	t.Parallel()

	c, err := newFPDFCanvas(nil, documentMeta{Created: time.Time{}}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	c.AddPage()

	glyph, err := assets.NewEmbeddedLoader().LoadImage(assets.ImagePass)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Image("pass", glyph, 10, 10, 6, 6); err != nil {
		t.Errorf("Image(valid) error = %v", err)
	}
	if err := c.Image("pass", glyph, 20, 10, 6, 6); err != nil {
		t.Errorf("Image(registered) error = %v", err)
	}

	first := c.Image("junk", []byte("\x89PNG not really"), 10, 20, 6, 6)
	if first == nil {
		t.Fatal("Image(junk) succeeded, want error")
	}
	if again := c.Image("junk", []byte("\x89PNG not really"), 10, 30, 6, 6); again == nil {
		t.Error("second Image(junk) succeeded, want cached error")
	}
	if err := c.Image("empty", nil, 0, 0, 1, 1); err == nil {
		t.Error("Image(empty) succeeded, want error")
	}

	c.SetFont(layout.StyleBody, bodySize)
	c.Text(10, 50, "document still usable")
	var buf bytes.Buffer
	if err := c.Close(&buf); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	info, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Pages != 1 {
		t.Errorf("pages = %d, want 1", info.Pages)
	}
}

func TestFPDFCanvas_RevisitPages(t *testing.T) {
	t.Parallel()

	c, err := newFPDFCanvas(nil, documentMeta{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		c.AddPage()
		c.SetFont(layout.StyleBody, bodySize)
		c.Text(20, 20, "page")
	}
	for p := 1; p <= c.PageCount(); p++ {
		c.SetPage(p)
		c.SetFont(layout.StyleBody, captionSize)
		c.Text(20, 280, "stamp")
	}

	var buf bytes.Buffer
	if err := c.Close(&buf); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if info, err := Inspect(buf.Bytes()); err != nil || info.Pages != 3 {
		t.Errorf("Inspect() = %+v, %v; want 3 pages", info, err)
	}
}

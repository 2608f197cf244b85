package pp5

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/alnah/go-pp5/internal/layout"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	pageMargin   = 10.0
	contentWidth = pageWidth - 2*pageMargin
)

// fallbackFamily is the core PDF font used when no typeface is available.
const fallbackFamily = "Helvetica"

// localeFamily names the embedded typeface inside the document.
const localeFamily = "pp5"

// canvas is the drawing surface the composer writes to. Pages are 1-based.
type canvas interface {
	AddPage()
	PageCount() int
	SetPage(n int)
	SetFont(style layout.Style, size float64)
	SetTextColor(r, g, b int)
	TextWidth(s string) float64
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64)
	// Image draws a PNG. Registration happens once per name; a failure
	// leaves the document usable.
	Image(name string, png []byte, x, y, w, h float64) error
	// Close serializes the document.
	Close(w io.Writer) error
}

// canvasFactory builds the document object for one generation.
type canvasFactory func(res *Resources, meta documentMeta) (canvas, error)

// documentMeta is written into the PDF information dictionary.
type documentMeta struct {
	Title   string
	Created time.Time
}

// Compile-time interface check.
var _ canvas = (*fpdfCanvas)(nil)

// fpdfCanvas draws with go-pdf/fpdf.
type fpdfCanvas struct {
	pdf    *fpdf.Fpdf
	family string
	logger *zap.Logger
	images map[string]error
	styled bool
}

// newFPDFCanvas prepares an A4 document. The locale typeface is registered
// when present; a typeface the writer rejects falls back to Helvetica.
func newFPDFCanvas(res *Resources, meta documentMeta, logger *zap.Logger) (*fpdfCanvas, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator("go-pp5", true)
	pdf.SetCatalogSort(true)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
		pdf.SetModificationDate(meta.Created)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("creating document: %w", pdf.Error())
	}

	c := &fpdfCanvas{pdf: pdf, family: fallbackFamily, logger: logger, images: make(map[string]error)}
	if res.HasTypeface() {
		pdf.AddUTF8FontFromBytes(localeFamily, "", res.Regular)
		pdf.AddUTF8FontFromBytes(localeFamily, "B", res.Bold)
		if pdf.Err() {
			logger.Warn("typeface rejected, using Helvetica", zap.Error(pdf.Error()))
			pdf.ClearError()
		} else {
			c.family = localeFamily
		}
	}
	return c, nil
}

func (c *fpdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *fpdfCanvas) PageCount() int { return c.pdf.PageCount() }

// SetPage revisits page n. The writer only emits a font change when the font
// differs, so the current font is re-emitted into the revisited page.
func (c *fpdfCanvas) SetPage(n int) {
	c.pdf.SetPage(n)
	if c.styled {
		size, _ := c.pdf.GetFontSize()
		c.pdf.SetFontSize(size)
	}
}

func (c *fpdfCanvas) Rect(x, y, w, h float64) { c.pdf.Rect(x, y, w, h, "D") }

func (c *fpdfCanvas) SetFont(style layout.Style, size float64) {
	weight := ""
	if style == layout.StyleHeader {
		weight = "B"
	}
	c.pdf.SetFont(c.family, weight, size)
	c.styled = true
}

func (c *fpdfCanvas) SetTextColor(r, g, b int) { c.pdf.SetTextColor(r, g, b) }

func (c *fpdfCanvas) TextWidth(s string) float64 { return c.pdf.GetStringWidth(s) }

func (c *fpdfCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, s) }

func (c *fpdfCanvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *fpdfCanvas) Image(name string, png []byte, x, y, w, h float64) error {
	if len(png) == 0 {
		return fmt.Errorf("image %q is empty", name)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	err, seen := c.images[name]
	if !seen {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		if c.pdf.Err() {
			err = fmt.Errorf("registering image %q: %w", name, c.pdf.Error())
			c.pdf.ClearError()
		}
		c.images[name] = err
	}
	if err != nil {
		return err
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (c *fpdfCanvas) Close(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// canvasMeasurer adapts a canvas to the layout engine. Measuring changes the
// current font, so callers reset it before drawing.
type canvasMeasurer struct {
	c    canvas
	size float64
}

func (m canvasMeasurer) TextWidth(style layout.Style, s string) float64 {
	m.c.SetFont(style, m.size)
	return m.c.TextWidth(s)
}

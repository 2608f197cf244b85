package pp5

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo describes a rendered document.
type PDFInfo struct {
	Pages int
	Bytes int
}

// pdfConfig returns a relaxed configuration: writers in the wild produce
// small deviations that strict validation rejects.
func pdfConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Inspect validates pdf and counts its pages.
func Inspect(pdf []byte) (PDFInfo, error) {
	if len(pdf) == 0 {
		return PDFInfo{}, fmt.Errorf("%w: empty document", ErrInvalidPDF)
	}
	if err := api.Validate(bytes.NewReader(pdf), pdfConfig()); err != nil {
		return PDFInfo{}, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	pages, err := api.PageCount(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return PDFInfo{}, fmt.Errorf("%w: counting pages: %v", ErrInvalidPDF, err)
	}
	return PDFInfo{Pages: pages, Bytes: len(pdf)}, nil
}

// Optimize rewrites pdf with shared resources deduplicated. The verdict
// glyphs and the verification code repeat on every page, so the saving
// grows with the page count.
func Optimize(pdf []byte) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPDF)
	}
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(pdf), &out, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: optimizing: %v", ErrInvalidPDF, err)
	}
	return out.Bytes(), nil
}

package pp5

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrPDFGeneration     = errors.New("PDF generation failed")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrInvalidRulebook   = errors.New("invalid rulebook")
	ErrInvalidDateFormat = errors.New("invalid date format")

	// Asset errors.
	ErrFontNotFound     = errors.New("font not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidAssetName = errors.New("invalid asset name")

	// Delivery errors.
	ErrViewerNotFound = errors.New("no PDF viewer found")
	ErrViewerLaunch   = errors.New("failed to open PDF viewer")
	ErrSave           = errors.New("failed to save PDF")
	ErrObjectExists   = errors.New("object already exists")

	// Inspection errors.
	ErrInvalidPDF = errors.New("invalid PDF")
)

// GenerationRetryMessage is shown to users when a document cannot be built.
const GenerationRetryMessage = "ไม่สามารถสร้าง PDF ได้ กรุณาลองใหม่อีกครั้ง"

// GenerationError is the single error type returned when document
// production fails. It matches ErrPDFGeneration with errors.Is.
type GenerationError struct {
	Stage string // "document", "render" or "output"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrPDFGeneration, e.Stage, e.Err)
}

// UserMessage returns the localized retry message.
func (e *GenerationError) UserMessage() string {
	return GenerationRetryMessage
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrPDFGeneration, e.Err}
}

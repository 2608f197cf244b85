// Package vcode encodes verification identifiers as QR code bitmaps.
package vcode

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the side of the generated bitmap in pixels.
const DefaultSize = 200

// Sentinel errors for code generation.
var (
	ErrEmptyPayload = errors.New("vcode: empty payload")
	ErrEncode       = errors.New("vcode: encoding failed")
)

// Encoder renders payloads as PNG QR codes.
type Encoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// New returns an Encoder producing DefaultSize bitmaps with medium error
// correction.
func New() *Encoder {
	return &Encoder{Size: DefaultSize, Level: qrcode.Medium}
}

// PNG encodes payload. It never returns a partial image.
func (e *Encoder) PNG(payload string) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, ErrEmptyPayload
	}
	size := e.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, e.Level, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return png, nil
}

// Payload builds the string carried by the code: the identifier alone, or
// appended to prefix when a verification URL prefix is configured.
func Payload(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + id
}

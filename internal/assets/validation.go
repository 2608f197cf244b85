package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength bounds logical names; real ones are short words.
const maxAssetNameLength = 64

// ValidateAssetName checks that a logical asset name is safe to join into a
// file path: non-empty, short, and free of separators, dots and NUL bytes.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

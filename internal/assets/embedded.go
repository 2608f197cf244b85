package assets

import (
	"embed"
	"fmt"
)

//go:embed images/*.png
var images embed.FS

// EmbeddedLoader serves the built-in verdict glyphs.
// It carries no typefaces: LoadFont always reports ErrFontNotFound.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadFont validates name and reports that no embedded typeface exists.
func (e *EmbeddedLoader) LoadFont(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrFontNotFound, name)
}

// LoadImage loads an embedded PNG by name.
func (e *EmbeddedLoader) LoadImage(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	content, err := images.ReadFile("images/" + name + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
	}
	return content, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)

package pp5

import (
	"errors"

	"github.com/alnah/go-pp5/internal/assets"
)

// Logical asset names. Fonts live under fonts/<name>.ttf and images under
// images/<name>.png in an asset directory.
const (
	FontRegular = assets.FontRegular
	FontBold    = assets.FontBold
	ImageLogo   = assets.ImageLogo
	ImagePass   = assets.ImagePass
	ImageFail   = assets.ImageFail
)

// AssetLoader supplies the typefaces and bitmaps used by the renderer.
// Implementations may read from a directory, embedded data, a bucket, etc.
//
// NewAssetLoader returns a filesystem loader with fallback to the embedded
// verdict glyphs. Implement this interface for other backends.
type AssetLoader interface {
	// LoadFont returns TrueType data by name (without extension).
	// Returns ErrFontNotFound when the font does not exist.
	LoadFont(name string) ([]byte, error)

	// LoadImage returns PNG data by name (without extension).
	// Returns ErrImageNotFound when the image does not exist.
	LoadImage(name string) ([]byte, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, only the embedded glyphs are available.
// If basePath is set, its assets take precedence over the embedded ones.
//
// The basePath directory may contain:
//   - fonts/regular.ttf and fonts/bold.ttf for the Thai typeface
//   - images/logo.png, images/pass.png and images/fail.png
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter wraps the internal resolver to return public errors.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadFont(name string) ([]byte, error) {
	data, err := a.resolver.LoadFont(name)
	return data, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadImage(name string) ([]byte, error) {
	data, err := a.resolver.LoadImage(name)
	return data, convertAssetError(err)
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrFontNotFound):
		return wrapError(ErrFontNotFound, err)
	case errors.Is(err, assets.ErrImageNotFound):
		return wrapError(ErrImageNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrInvalidAssetName, err)
	default:
		return err
	}
}

// isAssetNotFound reports a missing asset from either the public or the
// internal error set.
func isAssetNotFound(err error) bool {
	return errors.Is(err, ErrFontNotFound) || errors.Is(err, ErrImageNotFound) || assets.IsNotFound(err)
}

// wrapError keeps the original message and matches the public sentinel.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel only; internal errors stay hidden.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}

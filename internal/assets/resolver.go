package assets

import "errors"

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadFont loads a typeface, trying the custom loader first if available.
func (r *AssetResolver) LoadFont(name string) ([]byte, error) {
	return r.loadWithFallback(func(loader AssetLoader) ([]byte, error) {
		return loader.LoadFont(name)
	})
}

// LoadImage loads a bitmap, trying the custom loader first if available.
func (r *AssetResolver) LoadImage(name string) ([]byte, error) {
	return r.loadWithFallback(func(loader AssetLoader) ([]byte, error) {
		return loader.LoadImage(name)
	})
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) ([]byte, error)) ([]byte, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback.
	if !IsNotFound(err) {
		return nil, err
	}

	return loadFn(r.embedded)
}

// IsNotFound reports whether err means the asset does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFontNotFound) || errors.Is(err, ErrImageNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)

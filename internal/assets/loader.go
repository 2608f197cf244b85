package assets

// Logical asset names.
const (
	FontRegular = "regular"
	FontBold    = "bold"
	ImageLogo   = "logo"
	ImagePass   = "pass"
	ImageFail   = "fail"
)

// AssetLoader defines the contract for loading typefaces and bitmaps.
type AssetLoader interface {
	// LoadFont loads TrueType bytes by name (without .ttf extension).
	// Returns ErrFontNotFound if the font doesn't exist.
	LoadFont(name string) ([]byte, error)

	// LoadImage loads PNG bytes by name (without .png extension).
	// Returns ErrImageNotFound if the image doesn't exist.
	LoadImage(name string) ([]byte, error)
}

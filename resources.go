package pp5

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"github.com/alnah/go-pp5/internal/assets"
)

// Resources is an immutable snapshot of the optional rendering assets.
// A nil field means the asset is unavailable and the renderer degrades.
type Resources struct {
	Regular []byte // TrueType, validated
	Bold    []byte // TrueType, validated; Regular when no bold face exists
	Logo    []byte // PNG
	Pass    []byte // PNG verdict glyph
	Fail    []byte // PNG verdict glyph
}

// HasTypeface reports whether the locale typeface is available.
func (r *Resources) HasTypeface() bool {
	return r != nil && r.Regular != nil
}

func (r *Resources) passGlyph() []byte {
	if r == nil {
		return nil
	}
	return r.Pass
}

func (r *Resources) failGlyph() []byte {
	if r == nil {
		return nil
	}
	return r.Fail
}

// resourceLoader fetches assets once and serves the same snapshot to every
// generation afterwards.
type resourceLoader struct {
	loader AssetLoader
	logger *zap.Logger

	once sync.Once
	snap *Resources
}

func newResourceLoader(loader AssetLoader, logger *zap.Logger) *resourceLoader {
	return &resourceLoader{loader: loader, logger: logger}
}

// Snapshot loads the assets on first use. Failures are logged, never
// returned.
func (l *resourceLoader) Snapshot() *Resources {
	l.once.Do(func() {
		l.snap = l.load()
	})
	return l.snap
}

func (l *resourceLoader) load() *Resources {
	res := &Resources{
		Regular: l.font(assets.FontRegular),
		Bold:    l.font(assets.FontBold),
		Logo:    l.image(assets.ImageLogo),
		Pass:    l.image(assets.ImagePass),
		Fail:    l.image(assets.ImageFail),
	}
	if res.Bold == nil {
		res.Bold = res.Regular
	}
	l.logger.Debug("resources loaded",
		zap.Bool("typeface", res.Regular != nil),
		zap.Bool("logo", res.Logo != nil),
		zap.Bool("glyphs", res.Pass != nil && res.Fail != nil))
	return res
}

func (l *resourceLoader) font(name string) []byte {
	data, err := l.loader.LoadFont(name)
	if err == nil {
		err = validateTypeface(data)
	}
	if err != nil {
		l.report("font", name, err)
		return nil
	}
	return data
}

func (l *resourceLoader) image(name string) []byte {
	data, err := l.loader.LoadImage(name)
	if err == nil {
		_, err = png.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		l.report("image", name, err)
		return nil
	}
	return data
}

// report logs a missing asset at debug level and a broken one as a warning.
func (l *resourceLoader) report(kind, name string, err error) {
	if isAssetNotFound(err) {
		l.logger.Debug("asset not available", zap.String("kind", kind), zap.String("name", name))
		return
	}
	l.logger.Warn("asset unusable, falling back", zap.String("kind", kind), zap.String("name", name), zap.Error(err))
}

var errNoGlyphs = errors.New("typeface has no glyphs")

// validateTypeface parses TrueType data so that a corrupt file is rejected
// before it reaches the PDF writer.
func validateTypeface(data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing typeface: %w", err)
	}
	if f.NumGlyphs() == 0 {
		return errNoGlyphs
	}
	return nil
}

package pp5

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultScope is the report family used in output filenames.
const DefaultScope = "pp5"

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger == nil {
			logger = zap.NewNop()
		}
		g.logger = logger
	}
}

// WithAssetPath loads typefaces and images from dir, falling back to the
// embedded glyphs. Ignored when WithAssetLoader is also given.
func WithAssetPath(dir string) Option {
	return func(g *Generator) {
		g.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset source.
// Panics if loader is nil (programmer error).
func WithAssetLoader(loader AssetLoader) Option {
	if loader == nil {
		panic("pp5: WithAssetLoader loader must not be nil")
	}
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithRulebook replaces the default reference data used by the checks.
// The rulebook is copied; later changes to rb have no effect.
// Panics if rb is nil (programmer error).
func WithRulebook(rb *Rulebook) Option {
	if rb == nil {
		panic("pp5: WithRulebook rulebook must not be nil")
	}
	rb = rb.Clone()
	return func(g *Generator) {
		g.rulebook = rb
	}
}

// WithSchoolName prints name in front of the document title.
func WithSchoolName(name string) Option {
	return func(g *Generator) {
		g.school = strings.TrimSpace(name)
	}
}

// WithSignatories sets the names and roles of the three signature slots.
// Empty roles keep the default role of their slot.
func WithSignatories(s [3]Signatory) Option {
	return func(g *Generator) {
		for i := range s {
			if s[i].Role == "" {
				s[i].Role = DefaultSignatories[i].Role
			}
		}
		g.signatories = s
	}
}

// WithVerificationURL prefixes the identifier carried by the verification
// code, e.g. "https://school.example/verify?uuid=".
func WithVerificationURL(prefix string) Option {
	return func(g *Generator) {
		g.verifyURL = strings.TrimSpace(prefix)
	}
}

// WithScope sets the report family used in filenames.
// Panics if scope is empty (programmer error).
func WithScope(scope string) Option {
	if strings.TrimSpace(scope) == "" {
		panic("pp5: WithScope scope must not be empty")
	}
	return func(g *Generator) {
		g.scope = scope
	}
}

// WithClock sets the time source used for filenames and document dates.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("pp5: WithClock clock must not be nil")
	}
	return func(g *Generator) {
		g.now = now
	}
}

// WithDateFormat sets how timestamps are printed in the raw data section.
// format is a dateutil token string or preset name ("thai", "short", "iso");
// NewGenerator rejects invalid formats.
func WithDateFormat(format string) Option {
	return func(g *Generator) {
		g.dateFormat = format
	}
}

// WithLocation prints timestamps in loc instead of their own zone.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		g.location = loc
	}
}

// withCanvas replaces the PDF writer. Used by tests.
func withCanvas(f canvasFactory) Option {
	return func(g *Generator) {
		g.newCanvas = f
	}
}

// withEncoder replaces the verification code encoder. Used by tests.
func withEncoder(e codeEncoder) Option {
	return func(g *Generator) {
		g.encoder = e
	}
}

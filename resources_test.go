package pp5

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// countingLoader counts calls to the wrapped loader.
type countingLoader struct {
	AssetLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadFont(name string) ([]byte, error) {
	l.calls.Add(1)
	return l.AssetLoader.LoadFont(name)
}

func (l *countingLoader) LoadImage(name string) ([]byte, error) {
	l.calls.Add(1)
	return l.AssetLoader.LoadImage(name)
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestResourceLoader_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("bold falls back to regular", func(t *testing.T) {
		t.Parallel()

		loader := stubLoader{
			fonts:  map[string][]byte{FontRegular: goregular.TTF},
			images: embeddedGlyphs(t),
		}
		res := newResourceLoader(loader, zap.NewNop()).Snapshot()

		if !res.HasTypeface() {
			t.Fatal("HasTypeface() = false, want true")
		}
		if !bytes.Equal(res.Bold, goregular.TTF) {
			t.Error("Bold is not the regular face")
		}
		if res.Pass == nil || res.Fail == nil {
			t.Error("glyphs not loaded")
		}
		if res.Logo != nil {
			t.Error("Logo loaded from nowhere")
		}
	})

	t.Run("both faces", func(t *testing.T) {
		t.Parallel()

		loader := stubLoader{fonts: map[string][]byte{FontRegular: goregular.TTF, FontBold: gobold.TTF}}
		res := newResourceLoader(loader, zap.NewNop()).Snapshot()

		if !bytes.Equal(res.Bold, gobold.TTF) {
			t.Error("Bold is not the bold face")
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		t.Parallel()

		logger, logs := observedLogger()
		res := newResourceLoader(stubLoader{}, logger).Snapshot()

		if res.HasTypeface() || res.Logo != nil || res.Pass != nil || res.Fail != nil {
			t.Errorf("Snapshot() = %+v, want empty", res)
		}
		if n := logs.FilterMessage("asset not available").FilterLevelExact(zapcore.DebugLevel).Len(); n != 5 {
			t.Errorf("debug logs = %d, want 5", n)
		}
		if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 0 {
			t.Errorf("warnings = %d, want 0", n)
		}
	})
}

func TestResourceLoader_BrokenAssetsDegrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		loader   stubLoader
		wantWarn int
	}{
		{
			name:     "corrupt typeface",
			loader:   stubLoader{fonts: map[string][]byte{FontRegular: []byte("OTTO garbage")}},
			wantWarn: 1,
		},
		{
			name:     "corrupt image",
			loader:   stubLoader{images: map[string][]byte{ImageLogo: []byte("\x89PNG broken")}},
			wantWarn: 1,
		},
		{
			name:     "backend failure",
			loader:   stubLoader{fail: errors.New("permission denied")},
			wantWarn: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, logs := observedLogger()
			res := newResourceLoader(tt.loader, logger).Snapshot()

			if res.Regular != nil || res.Logo != nil {
				t.Errorf("broken asset kept: %+v", res)
			}
			if n := logs.FilterMessage("asset unusable, falling back").Len(); n != tt.wantWarn {
				t.Errorf("warnings = %d, want %d", n, tt.wantWarn)
			}
		})
	}
}

func TestResourceLoader_LoadsOnce(t *testing.T) {
	t.Parallel()

	loader := &countingLoader{AssetLoader: stubLoader{images: embeddedGlyphs(t)}}
	rl := newResourceLoader(loader, zap.NewNop())

	var wg sync.WaitGroup
	snaps := make([]*Resources, 8)
	for i := range snaps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i] = rl.Snapshot()
		}()
	}
	wg.Wait()

	if n := loader.calls.Load(); n != 5 {
		t.Errorf("loader calls = %d, want 5", n)
	}
	for i, s := range snaps {
		if s != snaps[0] {
			t.Errorf("snapshot %d differs from the first", i)
		}
	}
}

func TestResources_NilSafe(t *testing.T) {
	t.Parallel()

	var res *Resources
	if res.HasTypeface() || res.passGlyph() != nil || res.failGlyph() != nil {
		t.Error("nil Resources reported assets")
	}
}

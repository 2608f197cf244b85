package main

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	pp5 "github.com/alnah/go-pp5"
	"github.com/alnah/go-pp5/internal/config"
)

// Sentinel errors for argument handling.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeGenerateFlags merges CLI flags into config. CLI values override
// config values; boolean flags can only switch features on.
func mergeGenerateFlags(f *generateFlags, cfg *config.Config) {
	if f.output.dir != "" {
		cfg.Output.Dir = f.output.dir
	}
	if f.output.bucket != "" {
		cfg.Output.Bucket = f.output.bucket
	}
	if f.output.prefix != "" {
		cfg.Output.Prefix = f.output.prefix
	}
	if f.output.optimize {
		cfg.Output.Optimize = true
	}
	if f.output.raw {
		cfg.Output.RawData = true
	}

	if f.viewer.enabled {
		cfg.Viewer.Enabled = true
	}
	if f.viewer.browser != "" {
		cfg.Viewer.BrowserPath = f.viewer.browser
	}

	if f.school.name != "" {
		cfg.School.Name = f.school.name
	}
	if f.school.scope != "" {
		cfg.School.Scope = f.school.scope
	}
	if f.school.verifyURL != "" {
		cfg.School.VerificationURL = f.school.verifyURL
	}
	if f.school.assetPath != "" {
		cfg.Assets.BasePath = f.school.assetPath
	}
	if f.school.dateFormat != "" {
		cfg.Dates.Format = f.school.dateFormat
	}
	if f.school.timezone != "" {
		cfg.Dates.Timezone = f.school.timezone
	}

	if f.workers != 0 {
		cfg.Workers = f.workers
	}
}

// validateWorkers rejects worker counts outside 0..MaxWorkers.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// resolveWorkers determines the number of parallel generations.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n = runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}

// parseTimeout parses the --timeout flag. Empty means no limit.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	return d, nil
}

// buildRulebook applies config overrides to the default rulebook.
func buildRulebook(rc config.RulebookConfig) *pp5.Rulebook {
	rb := pp5.DefaultRulebook()
	maps.Copy(rb.LearningAreas, rc.LearningAreas)
	maps.Copy(rb.GradeLevels, rc.GradeLevels)
	if len(rc.Honorifics) > 0 {
		rb.Honorifics = rc.Honorifics
	}
	if len(rc.ScoreParts) > 0 {
		rb.ScoreParts = rc.ScoreParts
	}
	if rc.ScoreTotal != "" {
		rb.ScoreTotal = rc.ScoreTotal
	}
	if rc.ScoreExpected > 0 {
		rb.ScoreExpected = rc.ScoreExpected
	}
	if rc.PeriodsPerCredit > 0 {
		rb.PeriodsPerCredit = rc.PeriodsPerCredit
	}
	if rc.HoursPerCredit > 0 {
		rb.HoursPerCredit = rc.HoursPerCredit
	}
	return rb
}

// buildSignatories fills the signature slots in order.
func buildSignatories(list []config.Signatory) [3]pp5.Signatory {
	var out [3]pp5.Signatory
	for i := range out {
		if i < len(list) {
			out[i] = pp5.Signatory{Name: list[i].Name, Role: list[i].Role}
		}
	}
	return out
}

// generatorOptions translates the configuration into generator options.
func generatorOptions(cfg *config.Config, logger *zap.Logger, env *Environment) ([]pp5.Option, error) {
	loc, err := cfg.Dates.Location()
	if err != nil {
		return nil, err
	}

	opts := []pp5.Option{
		pp5.WithLogger(logger),
		pp5.WithClock(distinctMillis(env.Now)),
		pp5.WithRulebook(buildRulebook(cfg.Rulebook)),
		pp5.WithSchoolName(cfg.School.Name),
		pp5.WithVerificationURL(cfg.School.VerificationURL),
		pp5.WithLocation(loc),
	}
	if cfg.School.Scope != "" {
		opts = append(opts, pp5.WithScope(cfg.School.Scope))
	}
	if cfg.Dates.Format != "" {
		opts = append(opts, pp5.WithDateFormat(cfg.Dates.Format))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, pp5.WithAssetPath(cfg.Assets.BasePath))
	}
	if len(cfg.School.Signatories) > 0 {
		opts = append(opts, pp5.WithSignatories(buildSignatories(cfg.School.Signatories)))
	}
	return opts, nil
}

// distinctMillis wraps now so that successive readings differ by at least
// one millisecond. Report names carry the generation time in milliseconds
// and existing reports are never replaced, so a batch must not produce two
// readings within the same millisecond.
func distinctMillis(now func() time.Time) func() time.Time {
	var mu sync.Mutex
	var last time.Time
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		t := now()
		if !last.IsZero() && t.UnixMilli() <= last.UnixMilli() {
			t = last.Add(time.Millisecond)
		}
		last = t
		return t
	}
}

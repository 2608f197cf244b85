package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without a zoneinfo database
	"unicode/utf8"

	"github.com/alnah/go-pp5/internal/dateutil"
	"github.com/alnah/go-pp5/internal/fileutil"
	"github.com/alnah/go-pp5/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName is the directory searched under the user config directory.
const AppName = "go-pp5"

// Field length limits for multi-tenant safety.
const (
	MaxNameLength     = 100  // Person or school name
	MaxRoleLength     = 100  // Signatory role
	MaxPathLength     = 4096 // Filesystem path
	MaxURLLength      = 2048 // Browser limit
	MaxScopeLength    = 50   // Report family in filenames
	MaxBucketLength   = 222  // Cloud Storage limit
	MaxPrefixLength   = 512  // Object name prefix
	MaxAreaLength     = 100  // Learning area name
	MaxFieldLength    = 100  // Spreadsheet field key
	MaxPatternLength  = 200  // Grade level pattern
	MaxTimezoneLength = 64   // IANA zone name
	MaxSignatories    = 3
	MaxWorkers        = 32
)

// bucketName is the Cloud Storage naming rule.
var bucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*[a-z0-9]$`)

// Config holds all configuration for report generation.
type Config struct {
	School   SchoolConfig   `yaml:"school"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Dates    DatesConfig    `yaml:"dates"`
	Rulebook RulebookConfig `yaml:"rulebook"`
	Workers  int            `yaml:"workers"` // 0 = derived from GOMAXPROCS
}

// SchoolConfig describes the issuing school.
type SchoolConfig struct {
	Name            string      `yaml:"name"`
	Scope           string      `yaml:"scope"`           // Filename family (default: "pp5")
	VerificationURL string      `yaml:"verificationURL"` // Prefix of the QR payload
	Signatories     []Signatory `yaml:"signatories"`     // Up to three, in slot order
}

// Signatory fills one signature slot. An empty role keeps the slot's default.
type Signatory struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded glyphs only
}

// OutputConfig defines where reports go.
type OutputConfig struct {
	Dir      string `yaml:"dir"`      // Local directory (default: current directory)
	Bucket   string `yaml:"bucket"`   // Cloud Storage bucket; overrides Dir
	Prefix   string `yaml:"prefix"`   // Object name prefix inside Bucket
	Optimize bool   `yaml:"optimize"` // Run the PDF optimizer before saving
	RawData  bool   `yaml:"rawData"`  // Append the raw submission pages
}

// ViewerConfig defines opening reports after generation.
type ViewerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BrowserPath string `yaml:"browserPath"` // Empty = search usual locations
}

// DatesConfig defines how timestamps are printed.
type DatesConfig struct {
	Format   string `yaml:"format"`   // dateutil tokens or preset (default: "thai")
	Timezone string `yaml:"timezone"` // IANA name, e.g. "Asia/Bangkok"
}

// RulebookConfig overrides the checking conventions. Zero values keep the
// defaults; maps are merged key by key.
type RulebookConfig struct {
	LearningAreas    map[string]string `yaml:"learningAreas"`
	GradeLevels      map[string]string `yaml:"gradeLevels"`
	Honorifics       []string          `yaml:"honorifics"`
	ScoreParts       []string          `yaml:"scoreParts"`
	ScoreTotal       string            `yaml:"scoreTotal"`
	ScoreExpected    float64           `yaml:"scoreExpected"`
	PeriodsPerCredit float64           `yaml:"periodsPerCredit"`
	HoursPerCredit   float64           `yaml:"hoursPerCredit"`
}

// Validate checks field lengths and values. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := c.School.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := c.Output.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("viewer.browserPath", c.Viewer.BrowserPath, MaxPathLength); err != nil {
		return err
	}
	if err := c.Dates.validate(); err != nil {
		return err
	}
	if err := c.Rulebook.validate(); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

func (s *SchoolConfig) validate() error {
	if err := validateFieldLength("school.name", s.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("school.scope", s.Scope, MaxScopeLength); err != nil {
		return err
	}
	if strings.ContainsAny(s.Scope, `/\`) {
		return fmt.Errorf("%w: school.scope must not contain a path separator", ErrInvalidValue)
	}
	if err := validateFieldLength("school.verificationURL", s.VerificationURL, MaxURLLength); err != nil {
		return err
	}
	if s.VerificationURL != "" && !fileutil.IsURL(s.VerificationURL) {
		return fmt.Errorf("%w: school.verificationURL must start with http:// or https://", ErrInvalidValue)
	}
	if len(s.Signatories) > MaxSignatories {
		return fmt.Errorf("%w: school.signatories holds at most %d entries, got %d", ErrInvalidValue, MaxSignatories, len(s.Signatories))
	}
	for i, sig := range s.Signatories {
		if err := validateFieldLength(fmt.Sprintf("school.signatories[%d].name", i), sig.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("school.signatories[%d].role", i), sig.Role, MaxRoleLength); err != nil {
			return err
		}
	}
	return nil
}

func (o *OutputConfig) validate() error {
	if err := validateFieldLength("output.dir", o.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.bucket", o.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if o.Bucket != "" && (len(o.Bucket) < 3 || !bucketName.MatchString(o.Bucket)) {
		return fmt.Errorf("%w: output.bucket %q is not a valid bucket name", ErrInvalidValue, o.Bucket)
	}
	if err := validateFieldLength("output.prefix", o.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if o.Prefix != "" && o.Bucket == "" {
		return fmt.Errorf("%w: output.prefix requires output.bucket", ErrInvalidValue)
	}
	return nil
}

func (d *DatesConfig) validate() error {
	if d.Format != "" {
		if _, err := dateutil.Compile(d.Format); err != nil {
			return fmt.Errorf("%w: dates.format: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("dates.timezone", d.Timezone, MaxTimezoneLength); err != nil {
		return err
	}
	if _, err := d.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured zone, or nil when none is set.
func (d *DatesConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: dates.timezone: %v", ErrInvalidValue, err)
	}
	return loc, nil
}

func (r *RulebookConfig) validate() error {
	for prefix, area := range r.LearningAreas {
		if utf8.RuneCountInString(prefix) != 1 {
			return fmt.Errorf("%w: rulebook.learningAreas key %q must be one character", ErrInvalidValue, prefix)
		}
		if err := validateFieldLength("rulebook.learningAreas."+prefix, area, MaxAreaLength); err != nil {
			return err
		}
	}
	for digit, pattern := range r.GradeLevels {
		if utf8.RuneCountInString(digit) != 1 {
			return fmt.Errorf("%w: rulebook.gradeLevels key %q must be one character", ErrInvalidValue, digit)
		}
		if err := validateFieldLength("rulebook.gradeLevels."+digit, pattern, MaxPatternLength); err != nil {
			return err
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: rulebook.gradeLevels.%s: %v", ErrInvalidValue, digit, err)
		}
	}
	for i, h := range r.Honorifics {
		if err := validateFieldLength(fmt.Sprintf("rulebook.honorifics[%d]", i), h, MaxNameLength); err != nil {
			return err
		}
	}
	for i, p := range r.ScoreParts {
		if err := validateFieldLength(fmt.Sprintf("rulebook.scoreParts[%d]", i), p, MaxFieldLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("rulebook.scoreTotal", r.ScoreTotal, MaxFieldLength); err != nil {
		return err
	}
	if r.ScoreExpected < 0 || r.PeriodsPerCredit < 0 || r.HoursPerCredit < 0 {
		return fmt.Errorf("%w: rulebook numbers must not be negative", ErrInvalidValue)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file:
// reports saved to the current directory, Thai dates, no viewer.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Dir: "."},
		Dates:  DatesConfig{Format: dateutil.DefaultDateFormat},
	}
}

// applyDefaults fills the fields DefaultConfig sets when a file leaves
// them empty.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
	if c.Dates.Format == "" {
		c.Dates.Format = d.Dates.Format
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-pp5/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// SearchedPaths extracts the paths listed by a not-found error, for hints.
func SearchedPaths(err error) []string {
	if !errors.Is(err, ErrConfigNotFound) {
		return nil
	}
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds report destination flags.
type outputFlags struct {
	dir      string
	bucket   string
	prefix   string
	optimize bool
	raw      bool
}

// viewerFlags holds flags for opening reports.
type viewerFlags struct {
	enabled bool
	browser string
}

// schoolFlags holds document identity flags.
type schoolFlags struct {
	name       string
	scope      string
	verifyURL  string
	assetPath  string
	dateFormat string
	timezone   string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common   commonFlags
	output   outputFlags
	viewer   viewerFlags
	school   schoolFlags
	workers  int
	timeout  string
	assignID bool
	strict   bool
}

// checkFlags holds all flags for the check command.
type checkFlags struct {
	common commonFlags
	json   bool
	strict bool
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common    commonFlags
	json      bool
	assetPath string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addOutputFlags adds destination flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "out", "o", "", "output directory")
	fs.StringVar(&f.bucket, "bucket", "", "Cloud Storage bucket (replaces --out)")
	fs.StringVar(&f.prefix, "prefix", "", "object name prefix inside --bucket")
	fs.BoolVar(&f.optimize, "optimize", false, "optimize the PDF before saving")
	fs.BoolVar(&f.raw, "raw", false, "append pages listing the raw submission values")
}

// addViewerFlags adds viewer flags to a FlagSet.
func addViewerFlags(fs *flag.FlagSet, f *viewerFlags) {
	fs.BoolVar(&f.enabled, "view", false, "open reports in a browser instead of saving")
	fs.StringVar(&f.browser, "browser", "", "browser binary (default: search usual locations)")
}

// addSchoolFlags adds document identity flags to a FlagSet.
func addSchoolFlags(fs *flag.FlagSet, f *schoolFlags) {
	fs.StringVar(&f.name, "school", "", "school name printed in the header")
	fs.StringVar(&f.scope, "scope", "", "report family used in file names")
	fs.StringVar(&f.verifyURL, "verify-url", "", "prefix of the verification code payload")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with fonts/ and images/")
	fs.StringVar(&f.dateFormat, "date-format", "", "timestamp format or preset: thai, short, iso")
	fs.StringVar(&f.timezone, "timezone", "", "time zone for timestamps, e.g. Asia/Bangkok")
}

// parseError keeps flag.ErrHelp recognizable and marks everything else as
// a usage error.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := newFlagSet("generate", printGenerateUsage, stderr)

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "limit for the whole batch (e.g., 30s, 2m)")
	fs.BoolVar(&f.assignID, "assign-id", false, "give records without an identifier a new UUID")
	fs.BoolVar(&f.strict, "strict", false, "reject submissions missing required parts")

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addViewerFlags(fs, &f.viewer)
	addSchoolFlags(fs, &f.school)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string, stderr io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := newFlagSet("check", printCheckUsage, stderr)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.strict, "strict", false, "reject submissions missing required parts")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", printDoctorUsage, stderr)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with fonts/ and images/")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments", ErrUsage)
	}
	return f, nil
}

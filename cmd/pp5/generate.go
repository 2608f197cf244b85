package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pp5 "github.com/alnah/go-pp5"
	"github.com/alnah/go-pp5/internal/config"
	"github.com/alnah/go-pp5/internal/hints"
)

// Sentinel errors for the generate command.
var (
	ErrReadSubmission = errors.New("failed to read submission")
	ErrReportsFailed  = errors.New("report generation failed")
)

// reportGenerator is the part of pp5.Generator used by the batch.
type reportGenerator interface {
	Generate(ctx context.Context, in pp5.Input) (*pp5.Document, error)
}

// reportDeliverer is the part of pp5.Deliverer used by the batch.
type reportDeliverer interface {
	Deliver(ctx context.Context, doc *pp5.Document) (pp5.Delivery, error)
}

// Compile-time interface implementation checks.
var (
	_ reportGenerator = (*pp5.Generator)(nil)
	_ reportDeliverer = (*pp5.Deliverer)(nil)
)

// ReportResult holds the outcome of a single submission.
type ReportResult struct {
	InputPath string
	Location  string
	UUID      string
	Viewed    bool
	Pages     int
	Failures  int
	Err       error
	Duration  time.Duration
}

// batchJob carries what every worker shares.
type batchJob struct {
	gen       reportGenerator
	deliverer reportDeliverer
	logger    *zap.Logger
	newID     func() string
	raw       bool
	optimize  bool
	strict    bool
	assignID  bool
}

// runGenerateCmd runs the generate command and returns an exit code.
func runGenerateCmd(ctx context.Context, args []string, env *Environment) int {
	flags, paths, err := parseGenerateFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return reportError(env, err, "")
	}

	if err := runGenerate(ctx, paths, flags, env); err != nil {
		return reportError(env, err, flags.output.bucket)
	}
	return ExitSuccess
}

// runGenerate orchestrates one batch: configuration, destination, and the
// concurrent generation of every submission.
func runGenerate(ctx context.Context, paths []string, flags *generateFlags, env *Environment) error {
	if len(paths) == 0 {
		return ErrNoInput
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	timeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeGenerateFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := env.NewLogger(flags.common.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts, err := generatorOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	gen, err := pp5.NewGenerator(opts...)
	if err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	saver, closeSaver, err := openSaver(ctx, cfg, logger, env)
	if err != nil {
		return err
	}
	defer closeSaver()

	dopts := []pp5.DeliverOption{pp5.WithDeliveryLogger(logger)}
	if cfg.Viewer.Enabled {
		dopts = append(dopts, pp5.WithViewer(cfg.Viewer.BrowserPath))
	}

	job := &batchJob{
		gen:       gen,
		deliverer: pp5.NewDeliverer(saver, dopts...),
		logger:    logger,
		newID:     env.NewID,
		raw:       cfg.Output.RawData,
		optimize:  cfg.Output.Optimize,
		strict:    flags.strict,
		assignID:  flags.assignID,
	}

	workers := resolveWorkers(cfg.Workers)
	logger.Debug("starting batch", zap.Int("files", len(paths)), zap.Int("workers", workers))

	results := job.run(ctx, paths, workers)
	out := printOptions{
		quiet:      flags.common.quiet,
		verbose:    flags.common.verbose,
		viewer:     cfg.Viewer.Enabled,
		browserSet: cfg.Viewer.BrowserPath != "",
		bucket:     cfg.Output.Bucket,
	}
	if failed, first := printResults(results, out, env); failed > 0 {
		return fmt.Errorf("%w: %d of %d report(s): %w", ErrReportsFailed, failed, len(results), first)
	}
	return nil
}

// openSaver picks the report destination: the injected saver, a Cloud
// Storage bucket, or the output directory. The returned func releases it.
func openSaver(ctx context.Context, cfg *config.Config, logger *zap.Logger, env *Environment) (pp5.Saver, func(), error) {
	if env.NewSaver != nil {
		return env.NewSaver(ctx)
	}
	if cfg.Output.Bucket == "" {
		return pp5.DirSaver{Dir: cfg.Output.Dir}, func() {}, nil
	}

	client, err := env.Storage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening Cloud Storage: %v", pp5.ErrSave, err)
	}
	saver := pp5.NewBucketSaver(client, cfg.Output.Bucket, cfg.Output.Prefix, pp5.WithBucketLogger(logger))
	return saver, func() { _ = client.Close() }, nil
}

// run processes paths with at most workers concurrent generations.
// Results keep the order of paths.
func (j *batchJob) run(ctx context.Context, paths []string, workers int) []ReportResult {
	if len(paths) == 0 {
		return nil
	}

	results := make([]ReportResult, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ReportResult{InputPath: path, Err: err}
				return nil
			}
			results[i] = j.process(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// process turns one submission file into a delivered report.
func (j *batchJob) process(ctx context.Context, path string) ReportResult {
	start := time.Now()
	result := ReportResult{InputPath: path}
	done := func(err error) ReportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	rec, err := readSubmission(path)
	if err != nil {
		return done(err)
	}
	if j.strict {
		if err := rec.Validate(); err != nil {
			return done(err)
		}
	}
	if j.assignID {
		var assigned bool
		rec, assigned = withIdentifier(rec, j.newID)
		if assigned {
			j.logger.Info("assigned identifier", zap.String("input", path))
		}
	}

	doc, err := j.gen.Generate(ctx, pp5.Input{Record: rec, RawData: j.raw})
	if err != nil {
		return done(err)
	}

	if j.optimize {
		before := len(doc.PDF)
		pdf, err := pp5.Optimize(doc.PDF)
		if err != nil {
			return done(err)
		}
		doc.PDF = pdf
		j.logger.Debug("optimized report",
			zap.String("input", path), zap.Int("before", before), zap.Int("after", len(pdf)))
	}

	delivery, err := j.deliverer.Deliver(ctx, doc)
	if err != nil {
		return done(err)
	}

	result.Location = delivery.Location
	result.Viewed = delivery.Viewed
	result.UUID = doc.UUID
	result.Pages = doc.Pages
	result.Failures = doc.Failures
	return done(nil)
}

// readSubmission opens and decodes one submission file.
func readSubmission(path string) (*pp5.SubmissionRecord, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied input path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSubmission, err)
	}
	defer func() { _ = f.Close() }()

	return pp5.DecodeSubmission(f)
}

// withIdentifier returns rec with a fresh identifier when it has none.
// rec itself is never modified.
func withIdentifier(rec *pp5.SubmissionRecord, newID func() string) (*pp5.SubmissionRecord, bool) {
	if _, ok := rec.UUID(); ok {
		return rec, false
	}

	out := *rec
	var info pp5.PersistenceInfo
	if rec.Persistence != nil {
		info = *rec.Persistence
	}
	info.UUID = newID()
	out.Persistence = &info
	return &out, true
}

// printOptions controls result output.
type printOptions struct {
	quiet      bool
	verbose    bool
	viewer     bool
	browserSet bool
	bucket     string
}

// printResults writes one line per report and a summary for batches.
// It returns the failure count and the first failure.
func printResults(results []ReportResult, opts printOptions, env *Environment) (int, error) {
	var failed int
	var first error

	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, opts.bucket))
			continue
		}

		if opts.viewer && !r.Viewed {
			fmt.Fprintf(env.Stderr, "could not open viewer for %s%s\n", r.InputPath, hints.ForViewer(opts.browserSet))
		}

		if opts.quiet {
			continue
		}

		verb := "Created"
		if r.Viewed {
			verb = "Opened"
		}
		if opts.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %d failed checks, %v)\n",
				r.InputPath, r.Location, r.Pages, r.Failures, r.Duration.Round(time.Millisecond))
			if r.UUID != "" {
				fmt.Fprintf(env.Stdout, "  uuid: %s\n", r.UUID)
			}
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", verb, r.Location)
		}
	}

	if !opts.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed, first
}

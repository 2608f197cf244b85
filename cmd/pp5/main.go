package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	pp5 "github.com/alnah/go-pp5"
	"github.com/alnah/go-pp5/internal/config"
	"github.com/alnah/go-pp5/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrWriteOutput reports that command output could not be written.
var ErrWriteOutput = errors.New("failed to write output")

func main() {
	setMaxProcs(os.Args)

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// setMaxProcs configures GOMAXPROCS for the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(args []string) {
	if slices.Contains(args, "-v") || slices.Contains(args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// runMain dispatches to a command and returns the process exit code.
// A panic anywhere below is reported as a general failure.
func runMain(ctx context.Context, args []string, env *Environment) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(env.Stderr, "Error: internal error: %v\n", r)
			code = ExitGeneral
		}
	}()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "generate":
		return runGenerateCmd(ctx, rest, env)
	case "check":
		return runCheckCmd(rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "pp5 %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// reportError prints err with a hint and returns its exit code. bucket is
// the configured bucket, if any.
func reportError(env *Environment, err error, bucket string) int {
	hint := ""
	if !errors.Is(err, ErrReportsFailed) {
		// Each failed report already carried its own hint.
		hint = hintFor(err, bucket)
	}
	fmt.Fprintf(env.Stderr, "Error: %v%s\n", err, hint)
	return exitCodeFor(err)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, bucket string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchedPaths(err))
	case errors.Is(err, pp5.ErrObjectExists):
		return hints.ForObjectExists()
	case errors.Is(err, pp5.ErrSave) && bucket != "":
		return hints.ForBucket()
	case errors.Is(err, pp5.ErrSave):
		return hints.ForOutputDirectory()
	case errors.Is(err, pp5.ErrInvalidAssetPath):
		return hints.ForAssets()
	case errors.Is(err, pp5.ErrInvalidSubmission):
		return hints.ForSubmission()
	default:
		return ""
	}
}

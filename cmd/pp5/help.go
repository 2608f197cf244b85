package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pp5 <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Check submissions and render the verification reports")
	fmt.Fprintln(w, "  check      Print the check results without rendering")
	fmt.Fprintln(w, "  doctor     Diagnose viewer, assets, rules and report destination")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pp5 help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pp5 generate <submission.json>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check grading-sheet submissions and render one report per file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  submission.json    Upload backend response (or {\"backendResponse\": ...})")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --out <dir>           Output directory (default: current directory)")
	fmt.Fprintln(w, "      --bucket <name>       Upload to a Cloud Storage bucket instead")
	fmt.Fprintln(w, "      --prefix <path>       Object name prefix inside the bucket")
	fmt.Fprintln(w, "      --optimize            Optimize the PDF before saving")
	fmt.Fprintln(w, "      --raw                 Append pages listing the raw submission values")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Viewer:")
	fmt.Fprintln(w, "      --view                Open reports in a browser; save when that fails")
	fmt.Fprintln(w, "      --browser <path>      Browser binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --school <name>       School name printed in the header")
	fmt.Fprintln(w, "      --scope <s>           Report family in file names (default: pp5)")
	fmt.Fprintln(w, "      --verify-url <url>    Prefix of the verification code payload")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with fonts/ and images/")
	fmt.Fprintln(w, "      --date-format <s>     Timestamp format: thai, short, iso or tokens")
	fmt.Fprintln(w, "                            Tokens: BBBB, BB, YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "      --timezone <zone>     Time zone for timestamps, e.g. Asia/Bangkok")
	fmt.Fprintln(w, "      --assign-id           Give records without an identifier a new UUID")
	fmt.Fprintln(w, "      --strict              Reject submissions missing required parts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execution:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Limit for the whole batch (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pp5 check <submission.json>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the three check tables for each submission.")
	fmt.Fprintln(w, "Exits with status 1 when any check fails.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (rulebook overrides)")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --strict              Reject submissions missing required parts")
	fmt.Fprintln(w, "  -q, --quiet               Only print the summary line")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pp5 doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the viewer, fonts and logo, rulebook, date format and report destination.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with fonts/ and images/")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pp5 version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pp5 help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

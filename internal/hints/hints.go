// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pp5/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForViewer returns hints for a report that could not be opened.
func ForViewer(browserSet bool) string {
	var hints []string
	if inCI() || IsInContainer() {
		hints = append(hints, "no display in CI/containers, drop --view")
	}
	if !browserSet {
		hints = append(hints, "use --browser /path/to/chrome or set viewer.browserPath")
	}
	return formatHints(hints)
}

// ForBucket returns hints for Cloud Storage upload errors.
func ForBucket() string {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return format("set GOOGLE_APPLICATION_CREDENTIALS or run: gcloud auth application-default login before using --bucket")
	}
	return format("check the bucket exists and the credentials may create objects in it")
}

// ForObjectExists returns a hint for a report name that is already taken.
func ForObjectExists() string {
	return format("reports are never overwritten; remove the old report or choose another --out")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	sep := string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, sep+"go-pp5"+sep) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAssets returns hints for an unusable asset directory.
func ForAssets() string {
	return format("expected layout: fonts/regular.ttf, fonts/bold.ttf, images/logo.png")
}

// ForSubmission returns hints for submissions that cannot be decoded.
func ForSubmission() string {
	return format("expected the upload backend JSON with formData, excelData, geminiOcrResult and database")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

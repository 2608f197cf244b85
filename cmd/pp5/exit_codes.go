package main

import (
	"errors"
	"os"

	pp5 "github.com/alnah/go-pp5"
	"github.com/alnah/go-pp5/internal/config"
)

// Exit codes for the pp5 CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // All reports produced
	ExitGeneral    = 1 // General/unexpected error, or failed checks
	ExitUsage      = 2 // Invalid flags, config, or submission
	ExitIO         = 3 // File not found, permission denied, upload failure
	ExitGeneration = 4 // PDF could not be built
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Generation errors (exit 4)
	if errors.Is(err, pp5.ErrPDFGeneration) ||
		errors.Is(err, pp5.ErrInvalidPDF) {
		return ExitGeneration
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSubmission) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, pp5.ErrSave) ||
		errors.Is(err, pp5.ErrObjectExists) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, pp5.ErrInvalidSubmission) ||
		errors.Is(err, pp5.ErrInvalidAssetPath) ||
		errors.Is(err, pp5.ErrInvalidRulebook) ||
		errors.Is(err, pp5.ErrInvalidDateFormat) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}

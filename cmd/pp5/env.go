package main

import (
	"context"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pp5 "github.com/alnah/go-pp5"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, identifiers and external services.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	NewLogger   func(verbose bool) (*zap.Logger, error)
	NewID       func() string
	LookBrowser func() (string, bool)
	// NewSaver overrides the report destination. When nil the destination
	// comes from the configuration.
	NewSaver func(ctx context.Context) (pp5.Saver, func(), error)
	// Storage opens a Cloud Storage client for bucket output.
	Storage func(ctx context.Context) (*storage.Client, error)
	Getenv  func(key string) string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewLogger:   newLogger,
		NewID:       uuid.NewString,
		LookBrowser: launcher.LookPath,
		Getenv:      os.Getenv,
		Storage: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}
}

// getenv reads a variable through Getenv, or the process environment when
// none is injected.
func (e *Environment) getenv(key string) string {
	if e.Getenv == nil {
		return os.Getenv(key)
	}
	return e.Getenv(key)
}

// newLogger builds a JSON logger on stderr. Warnings and above by default,
// Debug under --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

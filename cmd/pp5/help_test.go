package main

// Notes:
// - Usage printers: we test that required content is present, not the exact
//   layout.
// - runHelp: we test routing and the exit code of unknown topics.

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsagePrinters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  []string
	}{
		{
			name:  "main",
			print: func(b *bytes.Buffer) { printUsage(b) },
			want:  []string{"Usage: pp5", "generate", "check", "doctor", "version", "help"},
		},
		{
			name:  "generate",
			print: func(b *bytes.Buffer) { printGenerateUsage(b) },
			want:  []string{"pp5 generate", "--out", "--bucket", "--view", "--date-format", "--assign-id", "--workers"},
		},
		{
			name:  "check",
			print: func(b *bytes.Buffer) { printCheckUsage(b) },
			want:  []string{"pp5 check", "--json", "status 1"},
		},
		{
			name:  "doctor",
			print: func(b *bytes.Buffer) { printDoctorUsage(b) },
			want:  []string{"pp5 doctor", "--asset-path", "--json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.print(&buf)
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("usage should contain %q, got:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     []string
		wantCode int
		wantOut  string
	}{
		{nil, ExitSuccess, "Commands:"},
		{[]string{"generate"}, ExitSuccess, "pp5 generate"},
		{[]string{"check"}, ExitSuccess, "pp5 check"},
		{[]string{"doctor"}, ExitSuccess, "pp5 doctor"},
		{[]string{"version"}, ExitSuccess, "pp5 version"},
		{[]string{"help"}, ExitSuccess, "pp5 help"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(t)
			if code := runHelp(tt.args, env); code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(t)
		if code := runHelp([]string{"convert"}, env); code != ExitUsage {
			t.Errorf("runHelp(convert) = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "Unknown command: convert") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}

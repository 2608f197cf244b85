package main

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"
)

func TestParseGenerateFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-c", "school", "-v", "-o", "out", "--bucket", "b-reports", "--prefix", "2567/",
		"--optimize", "--raw", "--view", "--browser", "/opt/chrome",
		"--school", "โรงเรียนบ้านสวน", "--scope", "pp6", "--verify-url", "https://v.example/?id=",
		"--asset-path", "assets", "--date-format", "iso", "--timezone", "Asia/Bangkok",
		"-w", "4", "-t", "2m", "--assign-id", "--strict",
		"a.json", "b.json",
	}

	f, paths, err := parseGenerateFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseGenerateFlags() error = %v", err)
	}

	want := &generateFlags{
		common:   commonFlags{config: "school", verbose: true},
		output:   outputFlags{dir: "out", bucket: "b-reports", prefix: "2567/", optimize: true, raw: true},
		viewer:   viewerFlags{enabled: true, browser: "/opt/chrome"},
		school:   schoolFlags{name: "โรงเรียนบ้านสวน", scope: "pp6", verifyURL: "https://v.example/?id=", assetPath: "assets", dateFormat: "iso", timezone: "Asia/Bangkok"},
		workers:  4,
		timeout:  "2m",
		assignID: true,
		strict:   true,
	}
	if diff := cmp.Diff(want, f, cmp.AllowUnexported(generateFlags{}, commonFlags{}, outputFlags{}, viewerFlags{}, schoolFlags{})); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.json", "b.json"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCheckFlags(t *testing.T) {
	t.Parallel()

	f, paths, err := parseCheckFlags([]string{"--json", "-q", "--strict", "a.json"}, io.Discard)
	if err != nil {
		t.Fatalf("parseCheckFlags() error = %v", err)
	}
	if !f.json || !f.strict || !f.common.quiet || len(paths) != 1 {
		t.Errorf("parseCheckFlags() = %+v, %v", f, paths)
	}
}

func TestParseDoctorFlags(t *testing.T) {
	t.Parallel()

	f, err := parseDoctorFlags([]string{"--json", "--asset-path", "assets"}, io.Discard)
	if err != nil {
		t.Fatalf("parseDoctorFlags() error = %v", err)
	}
	if !f.json || f.assetPath != "assets" {
		t.Errorf("parseDoctorFlags() = %+v", f)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parse func() error
		want  error
	}{
		{"generate unknown flag", func() error { _, _, err := parseGenerateFlags([]string{"--landscape"}, io.Discard); return err }, ErrUsage},
		{"generate bad workers", func() error { _, _, err := parseGenerateFlags([]string{"-w", "many"}, io.Discard); return err }, ErrUsage},
		{"generate help", func() error { _, _, err := parseGenerateFlags([]string{"-h"}, io.Discard); return err }, flag.ErrHelp},
		{"check unknown flag", func() error { _, _, err := parseCheckFlags([]string{"--out", "x"}, io.Discard); return err }, ErrUsage},
		{"doctor positional", func() error { _, err := parseDoctorFlags([]string{"x"}, io.Discard); return err }, ErrUsage},
		{"doctor help", func() error { _, err := parseDoctorFlags([]string{"--help"}, io.Discard); return err }, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.parse(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

package main

// Notes:
// - Tests go through runDoctorCmd and its JSON output.
// - The browser lookup, environment variables and the Cloud Storage client
//   are injected. The temp directory check reads the real host.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/google/go-cmp/cmp"

	pp5 "github.com/alnah/go-pp5"
)

func runDoctorJSON(t *testing.T, env *Environment, args ...string) (*doctorResult, int) {
	t.Helper()

	code := runDoctorCmd(context.Background(), append([]string{"--json"}, args...), env)
	var result doctorResult
	out := env.Stdout.(interface{ Bytes() []byte }).Bytes()
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return &result, code
}

func writeAssets(t *testing.T, files ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, sub := range []string{"fonts", "images"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	env.LookBrowser = func() (string, bool) { return "/usr/bin/chromium", true }
	env.Getenv = func(key string) string {
		if key == "DISPLAY" {
			return ":0"
		}
		return ""
	}
	assets := writeAssets(t, "fonts/regular.ttf", "fonts/bold.ttf", "images/logo.png")

	result, code := runDoctorJSON(t, env, "--asset-path", assets)

	if result.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("platform = %s", result.Platform)
	}
	if !result.Viewer.Found || result.Viewer.Path != "/usr/bin/chromium" || !result.Viewer.Display {
		t.Errorf("viewer = %+v", result.Viewer)
	}
	if !result.Assets.Regular || !result.Assets.Bold || !result.Assets.Logo {
		t.Errorf("assets = %+v, want all found", result.Assets)
	}
	if result.Output.Bucket != "" {
		t.Errorf("bucket checked without one configured: %+v", result.Output)
	}

	wantChecks := make([]int, 0, len(pp5.Phases))
	for _, p := range pp5.Phases {
		wantChecks = append(wantChecks, len(pp5.Labels(p)))
	}
	if !result.Rules.Valid {
		t.Errorf("rules = %+v, want valid", result.Rules)
	}
	if diff := cmp.Diff(wantChecks, result.Rules.Checks); diff != "" {
		t.Errorf("checks per phase mismatch (-want +got):\n%s", diff)
	}
	if result.Rules.Areas != len(pp5.DefaultRulebook().LearningAreas) {
		t.Errorf("learning areas = %d", result.Rules.Areas)
	}
	if !strings.Contains(result.Rules.DateSample, "2567") {
		t.Errorf("date sample = %q, want a Buddhist-era year", result.Rules.DateSample)
	}

	switch result.Status {
	case "ready", "warnings":
		if code != ExitSuccess {
			t.Errorf("status %s exit code = %d, want %d", result.Status, code, ExitSuccess)
		}
	case "errors":
		if code != ExitGeneral {
			t.Errorf("status errors exit code = %d, want %d", code, ExitGeneral)
		}
	default:
		t.Errorf("invalid status %q", result.Status)
	}
}

func TestRunDoctorCmd_MissingPieces(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	result, code := runDoctorJSON(t, env)

	if result.Viewer.Found {
		t.Error("browser reported found")
	}
	if result.Assets.Regular || result.Assets.Logo {
		t.Errorf("assets = %+v, want nothing without an asset path", result.Assets)
	}
	if result.Status == "ready" {
		t.Error("status ready despite missing fonts and browser")
	}
	joined := strings.Join(result.Warnings, "\n")
	for _, s := range []string{"No browser found", "Thai fonts missing", "Logo missing"} {
		if !strings.Contains(joined, s) {
			t.Errorf("warnings %q missing %q", joined, s)
		}
	}
	if result.Status == "warnings" && code != ExitSuccess {
		t.Errorf("exit code = %d for warnings", code)
	}
}

func TestRunDoctorCmd_NoDisplay(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("a display is always assumed on " + runtime.GOOS)
	}

	env, _, _ := testEnv(t)
	env.LookBrowser = func() (string, bool) { return "/usr/bin/chromium", true }
	result, code := runDoctorJSON(t, env)

	if !result.Viewer.Found || result.Viewer.Display {
		t.Errorf("viewer = %+v, want a browser without a display", result.Viewer)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "No display") {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if code != ExitSuccess && result.Status != "errors" {
		t.Errorf("exit code = %d with status %s", code, result.Status)
	}
}

func TestHasDisplay(t *testing.T) {
	t.Parallel()

	none := func(string) string { return "" }
	wayland := func(key string) string {
		if key == "WAYLAND_DISPLAY" {
			return "wayland-0"
		}
		return ""
	}

	tests := []struct {
		goos   string
		getenv func(string) string
		want   bool
	}{
		{"windows", none, true},
		{"darwin", none, true},
		{"linux", none, false},
		{"linux", wayland, true},
		{"freebsd", none, false},
	}

	for _, tt := range tests {
		if got := hasDisplay(tt.goos, tt.getenv); got != tt.want {
			t.Errorf("hasDisplay(%s) = %v, want %v", tt.goos, got, tt.want)
		}
	}
}

func TestRunDoctorCmd_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	result, code := runDoctorJSON(t, env, "--asset-path", filepath.Join(t.TempDir(), "absent"))

	if result.Status != "errors" || code != ExitGeneral {
		t.Errorf("status = %s, code = %d, want errors/%d", result.Status, code, ExitGeneral)
	}
	if !strings.Contains(strings.Join(result.Errors, "\n"), "Asset directory unusable") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestRunDoctorCmd_InvalidRulebook(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "school.yaml")
	data := "rulebook:\n  learningAreas:\n    I: \" \"\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv(t)
	result, code := runDoctorJSON(t, env, "--config", cfgPath)

	if result.Rules.Valid || len(result.Rules.Checks) != 0 {
		t.Errorf("rules = %+v, want invalid", result.Rules)
	}
	if code != ExitGeneral || !strings.Contains(strings.Join(result.Errors, "\n"), "Rulebook") {
		t.Errorf("code = %d, errors = %v", code, result.Errors)
	}
}

func TestRunDoctorCmd_StorageClient(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "school.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  bucket: reports-bucket\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv(t)
	env.Storage = func(context.Context) (*storage.Client, error) {
		return nil, errors.New("could not find default credentials")
	}

	result, code := runDoctorJSON(t, env, "--config", cfgPath)
	if result.Output.Bucket != "reports-bucket" || result.Output.Client {
		t.Errorf("output = %+v", result.Output)
	}
	if code != ExitGeneral || !strings.Contains(strings.Join(result.Errors, "\n"), "default credentials") {
		t.Errorf("code = %d, errors = %v", code, result.Errors)
	}
	if result.Output.Dir != "" {
		t.Errorf("output directory checked for bucket output: %+v", result.Output)
	}
}

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(t)
	runDoctorCmd(context.Background(), nil, env)

	want := []string{"pp5 doctor", "Viewer", "Assets", "Rules", pp5.Final.Title(), "Report date", "Output", "Status:"}
	for _, s := range want {
		if !strings.Contains(stdout.String(), s) {
			t.Errorf("output missing %q:\n%s", s, stdout)
		}
	}
}

func TestRunDoctorCmd_JSONWriteFailure(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(t)
	env.Stdout = errWriter{}
	if code := runDoctorCmd(context.Background(), []string{"--json"}, env); code != ExitIO {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "failed to write output") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if !writable(dir) {
		t.Errorf("writable(%s) = false", dir)
	}
	if writable(filepath.Join(dir, "absent")) {
		t.Error("writable() = true for a missing directory")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"

	pp5 "github.com/alnah/go-pp5"
	"github.com/alnah/go-pp5/internal/config"
	"github.com/alnah/go-pp5/internal/dateutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Platform string     `json:"platform"`
	Viewer   viewerInfo `json:"viewer"`
	Assets   assetInfo  `json:"assets"`
	Rules    rulesInfo  `json:"rules"`
	Output   outputInfo `json:"output"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// viewerInfo describes what --view needs: a browser, a display and a
// writable temp directory for the report it opens.
type viewerInfo struct {
	Found        bool   `json:"found"`
	Path         string `json:"path,omitempty"`
	Display      bool   `json:"display"`
	TempWritable bool   `json:"temp_writable"`
}

// assetInfo holds asset directory results.
type assetInfo struct {
	Path    string `json:"path,omitempty"`
	Regular bool   `json:"font_regular"`
	Bold    bool   `json:"font_bold"`
	Logo    bool   `json:"logo"`
}

// rulesInfo summarizes the rulebook and date settings reports use.
type rulesInfo struct {
	Valid      bool   `json:"valid"`
	Checks     []int  `json:"checks,omitempty"` // per phase, in page order
	Areas      int    `json:"learning_areas"`
	DateSample string `json:"date_sample,omitempty"`
}

// outputInfo describes where reports go.
type outputInfo struct {
	Dir      string `json:"dir,omitempty"`
	Writable bool   `json:"writable"`
	Bucket   string `json:"bucket,omitempty"`
	Client   bool   `json:"client"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return reportError(env, err, "")
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return reportError(env, err, "")
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	result := runDoctor(ctx, cfg, env)

	if flags.json {
		if err := writeJSON(env.Stdout, result); err != nil {
			return reportError(env, err, "")
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status:   "ready",
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	checkViewer(result, cfg, env)
	checkAssets(result, cfg.Assets.BasePath)
	checkRules(result, cfg, env)
	checkOutput(ctx, result, cfg, env)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkViewer looks for what --view needs. Reports are saved when viewing
// fails, so nothing here is an error.
func checkViewer(result *doctorResult, cfg *config.Config, env *Environment) {
	result.Viewer.TempWritable = writable(os.TempDir())
	if !result.Viewer.TempWritable {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Temp directory %s not writable; --view cannot stage reports", os.TempDir()))
	}

	path := cfg.Viewer.BrowserPath
	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Configured browser not found at %s", path))
			return
		}
	case env.LookBrowser != nil:
		var found bool
		if path, found = env.LookBrowser(); !found {
			result.Warnings = append(result.Warnings,
				"No browser found; --view will save reports instead of opening them")
			return
		}
	default:
		return
	}
	result.Viewer.Found, result.Viewer.Path = true, path

	result.Viewer.Display = hasDisplay(runtime.GOOS, env.getenv)
	if !result.Viewer.Display {
		result.Warnings = append(result.Warnings,
			"No display (DISPLAY, WAYLAND_DISPLAY unset); --view will save reports instead of opening them")
	}
}

// hasDisplay reports whether a browser window can appear. Only X11 and
// Wayland systems can run without one.
func hasDisplay(goos string, getenv func(string) string) bool {
	switch goos {
	case "windows", "darwin":
		return true
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
}

// checkAssets verifies the asset directory and the files reports use.
func checkAssets(result *doctorResult, basePath string) {
	result.Assets.Path = basePath

	loader, err := pp5.NewAssetLoader(basePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset directory unusable: %v", err))
		return
	}

	_, err = loader.LoadFont(pp5.FontRegular)
	result.Assets.Regular = err == nil
	_, err = loader.LoadFont(pp5.FontBold)
	result.Assets.Bold = err == nil
	_, err = loader.LoadImage(pp5.ImageLogo)
	result.Assets.Logo = err == nil

	if !result.Assets.Regular || !result.Assets.Bold {
		result.Warnings = append(result.Warnings,
			"Thai fonts missing (fonts/regular.ttf, fonts/bold.ttf); Thai text will not render. Set --asset-path")
	}
	if !result.Assets.Logo {
		result.Warnings = append(result.Warnings, "Logo missing (images/logo.png); reports print without it")
	}
}

// checkRules builds the rulebook the way generate does and prints today's
// date in the report format.
func checkRules(result *doctorResult, cfg *config.Config, env *Environment) {
	rb := buildRulebook(cfg.Rulebook)
	if err := rb.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Rulebook: %v", err))
	} else {
		result.Rules.Valid = true
		for _, p := range pp5.Phases {
			result.Rules.Checks = append(result.Rules.Checks, len(rb.Labels(p)))
		}
	}
	result.Rules.Areas = len(rb.LearningAreas)

	layout, err := dateutil.Compile(cfg.Dates.Format)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Date format: %v", err))
		return
	}
	loc, err := cfg.Dates.Location()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Time zone: %v", err))
		return
	}
	result.Rules.DateSample = layout.In(loc).Format(env.Now())
}

// checkOutput verifies the report destination: a Cloud Storage client when
// a bucket is configured, the output directory otherwise.
func checkOutput(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	if bucket := cfg.Output.Bucket; bucket != "" {
		result.Output.Bucket = bucket
		if env.Storage == nil {
			return
		}
		client, err := env.Storage(ctx)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cloud Storage client: %v", err))
			return
		}
		_ = client.Close()
		result.Output.Client = true
		return
	}

	dir := cfg.Output.Dir
	result.Output.Dir = dir
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist yet; it will be created", dir))
		return
	}
	if writable(dir) {
		result.Output.Writable = true
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory not writable: %s", dir))
	}
}

// writable reports whether a file can be created in dir.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".pp5-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "pp5 doctor (%s)\n", r.Platform)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Viewer")
	if r.Viewer.Found {
		fmt.Fprintf(w, "  [OK] Browser: %s\n", r.Viewer.Path)
		printCheck(w, "Display", r.Viewer.Display)
	} else {
		fmt.Fprintln(w, "  [WARN] Browser: not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	if r.Assets.Path != "" {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Assets.Path)
	} else {
		fmt.Fprintln(w, "  [WARN] Directory: not set (embedded glyphs only)")
	}
	printCheck(w, "Regular font", r.Assets.Regular)
	printCheck(w, "Bold font", r.Assets.Bold)
	printCheck(w, "Logo", r.Assets.Logo)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Rules")
	if r.Rules.Valid {
		for i, p := range pp5.Phases {
			fmt.Fprintf(w, "  [OK] %s: %d checks\n", p.Title(), r.Rules.Checks[i])
		}
		fmt.Fprintf(w, "  [OK] Learning areas: %d\n", r.Rules.Areas)
	} else {
		fmt.Fprintln(w, "  [ERROR] Rulebook: invalid")
	}
	if r.Rules.DateSample != "" {
		fmt.Fprintf(w, "  [OK] Report date: %s\n", r.Rules.DateSample)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Bucket != "":
		fmt.Fprintf(w, "  [OK] Bucket: %s\n", r.Output.Bucket)
		printCheck(w, "Client", r.Output.Client)
	case r.Output.Writable:
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Output.Dir)
	default:
		fmt.Fprintf(w, "  [WARN] Directory: %s\n", r.Output.Dir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to check and render reports")
	case "warnings":
		fmt.Fprintln(w, "Status: Reports can be rendered; see warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Reports cannot be rendered (see errors above)")
	}
}

func printCheck(w io.Writer, name string, ok bool) {
	if ok {
		fmt.Fprintf(w, "  [OK] %s: found\n", name)
	} else {
		fmt.Fprintf(w, "  [WARN] %s: missing\n", name)
	}
}

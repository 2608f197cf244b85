package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	pp5 "github.com/alnah/go-pp5"
)

// noItems fills a table whose phase has no rules.
const noItems = "ไม่มีรายการตรวจสอบ"

// checkItem is one row of a verification table.
type checkItem struct {
	No      int         `json:"no"`
	Label   string      `json:"label"`
	Value   pp5.Verdict `json:"value"`
	Result  string      `json:"result"`
	Message string      `json:"message,omitempty"`
}

// phaseReport groups the rows of one phase.
type phaseReport struct {
	Phase string      `json:"phase"`
	Title string      `json:"title"`
	Items []checkItem `json:"items"`
}

// checkReport is the evaluation of one submission file.
type checkReport struct {
	File     string        `json:"file"`
	UUID     string        `json:"uuid,omitempty"`
	Failures int           `json:"failures"`
	Banner   string        `json:"banner"`
	Phases   []phaseReport `json:"phases"`
	Warnings []string      `json:"warnings,omitempty"`
}

// runCheckCmd evaluates submissions without rendering and returns an exit
// code. Exit codes: 0 = every check passed, 1 = at least one check failed.
func runCheckCmd(args []string, env *Environment) int {
	flags, paths, err := parseCheckFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return reportError(env, err, "")
	}
	if len(paths) == 0 {
		return reportError(env, ErrNoInput, "")
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return reportError(env, err, "")
	}
	if err := cfg.Validate(); err != nil {
		return reportError(env, err, "")
	}
	rb := buildRulebook(cfg.Rulebook)
	if err := rb.Validate(); err != nil {
		return reportError(env, err, "")
	}

	var reports []checkReport
	var firstErr error
	failures := 0
	for _, path := range paths {
		rep, err := checkFile(path, rb, flags.strict)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", path, err, hintFor(err, ""))
			continue
		}
		failures += rep.Failures
		reports = append(reports, rep)
	}

	if flags.json {
		if reports == nil {
			reports = []checkReport{}
		}
		if err := writeJSON(env.Stdout, reports); err != nil {
			return reportError(env, err, "")
		}
	} else {
		r := lipgloss.NewRenderer(env.Stdout)
		for _, rep := range reports {
			printCheckReport(env.Stdout, r, rep, flags.common.quiet)
		}
	}

	switch {
	case firstErr != nil:
		return exitCodeFor(firstErr)
	case failures > 0:
		return ExitGeneral
	default:
		return ExitSuccess
	}
}

// checkFile reads one submission and evaluates every phase.
func checkFile(path string, rb *pp5.Rulebook, strict bool) (checkReport, error) {
	rec, err := readSubmission(path)
	if err != nil {
		return checkReport{}, err
	}
	if strict {
		if err := rec.Validate(); err != nil {
			return checkReport{}, err
		}
	}

	results := rb.EvaluateAll(rec)
	rep := checkReport{
		File:     path,
		Failures: results.Failures(),
		Banner:   pp5.Banner(results.Failures()),
	}

	if id, ok := rec.UUID(); ok {
		rep.UUID = id
		if _, err := uuid.Parse(id); err != nil {
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("identifier %q is not a UUID; the verification code still encodes it", id))
		}
	} else {
		rep.Warnings = append(rep.Warnings, "record has no identifier; the report will carry no verification code")
	}

	for i, p := range pp5.Phases {
		labels := rb.Labels(p)
		items := make([]checkItem, 0, len(labels))
		for k, label := range labels {
			var res pp5.CheckResult
			if k < len(results[i]) {
				res = results[i][k]
			}
			items = append(items, checkItem{
				No:      k + 1,
				Label:   label,
				Value:   res.Value,
				Result:  res.Value.String(),
				Message: res.Message,
			})
		}
		rep.Phases = append(rep.Phases, phaseReport{Phase: p.String(), Title: p.Title(), Items: items})
	}
	return rep, nil
}

// printCheckReport writes the tables of one submission. Quiet mode prints
// only the summary line.
func printCheckReport(w io.Writer, r *lipgloss.Renderer, rep checkReport, quiet bool) {
	if quiet {
		fmt.Fprintf(w, "%s: %s\n", rep.File, rep.Banner)
		return
	}

	fmt.Fprintln(w, r.NewStyle().Bold(true).Render(rep.File))
	if rep.UUID != "" {
		fmt.Fprintf(w, "uuid: %s\n", rep.UUID)
	}
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warn)
	}
	fmt.Fprintln(w)

	for _, phase := range rep.Phases {
		t := checkTable{Title: phase.Title}
		for _, it := range phase.Items {
			t.Rows = append(t.Rows, checkRow{
				Cells:   [4]string{strconv.Itoa(it.No), it.Label, it.Value.Label(), it.Message},
				Verdict: it.Value,
			})
		}
		fmt.Fprint(w, t.View(r))
	}

	banner := r.NewStyle().Bold(true)
	if rep.Failures > 0 {
		banner = banner.Foreground(failColor)
	} else {
		banner = banner.Foreground(passColor)
	}
	fmt.Fprintln(w, banner.Render(rep.Banner))
	fmt.Fprintln(w)
}

// Verdict colors.
var (
	passColor = lipgloss.Color("#2E7D32")
	failColor = lipgloss.Color("#C62828")
	sepColor  = lipgloss.Color("#808080")
)

// checkRow is one table row and the verdict that colors it.
type checkRow struct {
	Cells   [4]string
	Verdict pp5.Verdict
}

// checkTable renders a verification table for the terminal.
type checkTable struct {
	Title string
	Rows  []checkRow
}

// View renders the table with column widths fitted to the content.
func (t checkTable) View(r *lipgloss.Renderer) string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(r.NewStyle().Bold(true).Underline(true).Render(t.Title))
		sb.WriteString("\n")
	}

	headers := pp5.TableHeaders
	var widths [4]int
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	total := len(headers) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	sep := r.NewStyle().Foreground(sepColor)

	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sep.Render("|"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(sep.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	if len(t.Rows) == 0 {
		sb.WriteString(cellStyle.Render(noItems))
		sb.WriteString("\n\n")
		return sb.String()
	}

	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			style := cellStyle.Width(widths[i])
			if i == 2 {
				switch row.Verdict {
				case pp5.Pass:
					style = style.Foreground(passColor)
				case pp5.Fail:
					style = style.Foreground(failColor)
				}
			}
			sb.WriteString(style.Render(cell))
			if i < len(row.Cells)-1 {
				sb.WriteString(sep.Render("|"))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

package pp5

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pp5/internal/dateutil"
	"github.com/alnah/go-pp5/internal/vcode"
)

// Generator evaluates submissions and renders the verification report.
// A Generator is safe for concurrent use; assets are loaded once on first
// use and shared read-only.
type Generator struct {
	logger      *zap.Logger
	rulebook    *Rulebook
	loader      AssetLoader
	assetPath   string
	school      string
	signatories [3]Signatory
	verifyURL   string
	scope       string
	now         func() time.Time
	dateFormat  string
	location    *time.Location
	dates       dateutil.Layout
	encoder     codeEncoder
	newCanvas   canvasFactory
	resources   *resourceLoader
}

// Input is one generation request.
type Input struct {
	Record *SubmissionRecord
	// Results replaces evaluation with verdicts computed elsewhere.
	Results *PhaseResults
	// RawData appends pages listing the raw submission values.
	RawData bool
}

// Document is a rendered report.
type Document struct {
	PDF      []byte
	Filename string
	Results  PhaseResults
	Failures int
	Pages    int
	UUID     string // empty when the record carried no identifier
}

// NewGenerator creates a Generator. Asset errors surface here only when the
// asset directory itself is invalid; missing or broken files degrade at
// render time.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		logger:      zap.NewNop(),
		rulebook:    DefaultRulebook(),
		signatories: DefaultSignatories,
		scope:       DefaultScope,
		now:         time.Now,
		dateFormat:  dateutil.DefaultDateFormat,
		encoder:     vcode.New(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.rulebook.Validate(); err != nil {
		return nil, err
	}
	dates, err := dateutil.Compile(g.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	g.dates = dates.In(g.location)
	if g.loader == nil {
		loader, err := NewAssetLoader(g.assetPath)
		if err != nil {
			return nil, err
		}
		g.loader = loader
	}
	if g.newCanvas == nil {
		g.newCanvas = func(res *Resources, meta documentMeta) (canvas, error) {
			c, err := newFPDFCanvas(res, meta, g.logger)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	g.resources = newResourceLoader(g.loader, g.logger)
	return g, nil
}

// Rulebook returns a copy of the reference data used by the checks.
func (g *Generator) Rulebook() *Rulebook {
	return g.rulebook.Clone()
}

// Evaluate runs the three phases against rec.
func (g *Generator) Evaluate(rec *SubmissionRecord) PhaseResults {
	return g.rulebook.EvaluateAll(rec)
}

// Generate renders the report for one submission. Missing data never fails
// generation; any failure of the document itself is returned as a
// *GenerationError. Cancellation is observed between pages.
func (g *Generator) Generate(ctx context.Context, in Input) (doc *Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Record == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidSubmission)
	}

	results := g.Evaluate(in.Record)
	if in.Results != nil {
		results = *in.Results
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("panic while rendering", zap.Any("panic", r))
			doc, err = nil, &GenerationError{Stage: "render", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	now := g.now()
	res := g.resources.Snapshot()
	c, err := g.newCanvas(res, documentMeta{Title: DocumentTitle, Created: now})
	if err != nil {
		return nil, &GenerationError{Stage: "document", Err: err}
	}

	cp := &composer{
		c:       c,
		res:     res,
		rec:     in.Record,
		results: results,
		g:       g,
		raw:     in.RawData,
		now:     now,
		logger:  g.logger,
	}
	for _, p := range Phases {
		cp.labels[p] = g.rulebook.Labels(p)
	}
	if err := cp.compose(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &GenerationError{Stage: "render", Err: err}
	}

	pages := c.PageCount()
	var buf bytes.Buffer
	if err := c.Close(&buf); err != nil {
		return nil, &GenerationError{Stage: "output", Err: err}
	}

	id, _ := in.Record.UUID()
	doc = &Document{
		PDF:      buf.Bytes(),
		Filename: ReportFilename(g.scope, in.Record, now),
		Results:  results,
		Failures: results.Failures(),
		Pages:    pages,
		UUID:     id,
	}
	g.logger.Info("report generated",
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.Pages),
		zap.Int("failures", doc.Failures),
		zap.Int("bytes", len(doc.PDF)))
	return doc, nil
}

// ReportFilename returns report-<scope>-<academicYear>-<semester>-<unixMillis>.pdf.
// Year and semester come from the form, then the spreadsheet.
func ReportFilename(scope string, rec *SubmissionRecord, t time.Time) string {
	if scope == "" {
		scope = DefaultScope
	}
	year, ok := rec.FormAcademicYear()
	if !ok {
		year, _ = rec.SheetString(fieldAcademicYear)
	}
	semester, ok := rec.FormSemester()
	if !ok {
		semester, _ = rec.SheetString(fieldSemester)
	}
	return "report-" + filenamePart(scope) + "-" + filenamePart(year) + "-" +
		filenamePart(semester) + "-" + strconv.FormatInt(t.UnixMilli(), 10) + ".pdf"
}

// filenamePart keeps a value safe inside a filename.
func filenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}

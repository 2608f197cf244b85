// Package pp5 checks Thai grading-sheet (ปพ.5) submissions and renders the
// verification report as a PDF.
//
// # Quick Start
//
// Decode a submission, generate the report, and save it:
//
//	rec, err := pp5.DecodeSubmission(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen, err := pp5.NewGenerator(
//	    pp5.WithSchoolName("โรงเรียนบ้านสวน"),
//	    pp5.WithAssetPath("/path/to/assets"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := gen.Generate(ctx, pp5.Input{Record: rec})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loc, err := pp5.DirSaver{Dir: "reports"}.Save(ctx, doc.Filename, doc.PDF)
//
// # Checks
//
// A submission combines the form typed by the teacher, the spreadsheet
// extract and the OCR summary of the scanned report. The rules of each
// phase (pre-midterm, midterm, final) compare these sources and yield a
// Verdict: Pass, Fail with a Thai message, or NotApplicable when the data
// a rule needs is missing. Missing data never passes.
//
//	results := pp5.EvaluateAll(rec)
//	fmt.Println(pp5.Banner(results.Failures()))
//
// The conventions behind the rules (learning areas, grade levels, honorific
// prefixes, score parts, credit multipliers) live in a Rulebook. Start from
// DefaultRulebook and pass it with WithRulebook to adapt them to a school.
//
// # Report Layout
//
// Each phase gets one A4 page with the school header, a four-column table,
// the compliance banner, three signature slots and the verification code.
// Input.RawData appends pages listing every raw submission value.
//
// # Delivery
//
// Deliverer opens a report in a browser when WithViewer is set and falls
// back to a Saver otherwise. DirSaver writes to a local directory and
// BucketSaver uploads to Cloud Storage. Neither replaces an existing report.
//
// # Custom Assets
//
// The Thai typeface and the school logo are read from an asset directory:
//
//	assets/
//	├── fonts/
//	│   ├── regular.ttf
//	│   └── bold.ttf
//	└── images/
//	    ├── logo.png
//	    ├── pass.png
//	    └── fail.png
//
// The verdict glyphs are embedded. Without a typeface the report falls back
// to Helvetica, which cannot draw Thai text.
package pp5

package pp5

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pp5/internal/layout"
	"github.com/alnah/go-pp5/internal/vcode"
)

// Text shown when a header or dump value is missing.
const noData = "ไม่มีข้อมูล"

// DocumentTitle is the title printed in every page header.
const DocumentTitle = "แบบตรวจสอบเอกสาร ปพ.5"

// Font sizes in points.
const (
	titleSize   = 16.0
	headerSize  = 13.0
	bodySize    = 11.0
	minMetaSize = 8.0
	captionSize = 8.0
)

// Header band.
const (
	headerTop    = pageMargin
	headerRow    = 8.0
	headerRows   = 3
	logoWidth    = 30.0
	logoSide     = 20.0
	headerBottom = headerTop + headerRows*headerRow
	cellPadding  = 3.0
)

// Vertical positions of the page furniture, as baselines unless noted.
const (
	bannerY         = headerBottom + 9
	firstTitleY     = bannerY + 8
	titleY          = headerBottom + 9
	tableGap        = 4.0
	signatureGap    = 18.0
	signatureLine   = 7.0
	rawLineHeight   = 6.5
	rawSectionGap   = 4.0
	rawBottom       = 250.0 // keeps dump text clear of the verification code
	fallbackIDY     = pageHeight - 12
	captionGap      = 4.0
	verifyCodeSide  = 25.0
	verifyCodeX     = pageWidth - pageMargin - verifyCodeSide
	verifyCodeY     = pageHeight - 40
	verifyImageName = "vcode"
)

var tableGrid = layout.Grid{
	X:          pageMargin,
	Width:      contentWidth,
	RowHeight:  10,
	LineHeight: 5,
	Margin:     4,
	IconSize:   6,
}

// TableHeaders are the column titles of every verification table.
var TableHeaders = [4]string{"ลำดับ", "รายการตรวจสอบ", "ผล", "หมายเหตุ"}

// Colors as RGB.
var (
	colorText = [3]int{0, 0, 0}
	colorPass = [3]int{0, 128, 0}
	colorFail = [3]int{200, 0, 0}
)

// Signatory is one signature slot printed under every table.
type Signatory struct {
	Name string
	Role string
}

// DefaultSignatories are the three approval roles of the grading sheet.
var DefaultSignatories = [3]Signatory{
	{Role: "นายทะเบียน"},
	{Role: "หัวหน้างานวิชาการ"},
	{Role: "ผู้อำนวยการ"},
}

// codeEncoder renders a verification payload as a PNG bitmap.
type codeEncoder interface {
	PNG(payload string) ([]byte, error)
}

// Compile-time interface check.
var _ codeEncoder = (*vcode.Encoder)(nil)

// pageContext identifies the page a header is drawn on.
type pageContext struct {
	Number int
}

// composer draws one document. It is used once and discarded.
type composer struct {
	c       canvas
	res     *Resources
	rec     *SubmissionRecord
	results PhaseResults
	labels  [len(Phases)][]string
	g       *Generator
	raw     bool
	now     time.Time
	page    int
	logger  *zap.Logger
}

// compose draws every page, then stamps the verification code.
// The context is checked between pages.
func (cp *composer) compose(ctx context.Context) error {
	failures := cp.results.Failures()
	for i, phase := range Phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		cp.newPage()
		y := float64(titleY)
		if i == 0 {
			cp.drawBanner(failures)
			y = firstTitleY
		}
		y = cp.drawTitle(y, phase.Title())
		y = cp.drawTable(phase, y)
		cp.drawSignatures(y + signatureGap)
	}
	if cp.raw {
		if err := ctx.Err(); err != nil {
			return err
		}
		cp.drawRawData()
	}
	cp.postPass()
	return nil
}

// newPage appends a page and draws its header.
func (cp *composer) newPage() {
	cp.c.AddPage()
	cp.page++
	cp.drawHeader(pageContext{Number: cp.page})
}

func (cp *composer) setColor(rgb [3]int) {
	cp.c.SetTextColor(rgb[0], rgb[1], rgb[2])
}

// centerText draws s centered in the horizontal span [x, x+w].
func (cp *composer) centerText(x, w, y float64, s string, style layout.Style, size float64) {
	cp.c.SetFont(style, size)
	cp.c.Text(x+(w-cp.c.TextWidth(s))/2, y, s)
}

// fitText draws s at x, shrinking the font until it fits in w.
func (cp *composer) fitText(x, w, y float64, s string, size float64) {
	cp.c.SetFont(layout.StyleBody, size)
	for size > minMetaSize && cp.c.TextWidth(s) > w {
		size--
		cp.c.SetFont(layout.StyleBody, size)
	}
	cp.c.Text(x, y, s)
}

// metaValue resolves a header value from the spreadsheet, then the form.
func (cp *composer) metaValue(key string, form func(*SubmissionRecord) (string, bool)) string {
	if v, ok := cp.rec.SheetString(key); ok {
		return v
	}
	if form != nil {
		if v, ok := form(cp.rec); ok {
			return v
		}
	}
	return noData
}

// drawHeader draws the band repeated at the top of every page: a logo cell
// spanning three rows, the title cell, and the metadata cell below it.
func (cp *composer) drawHeader(page pageContext) {
	x, y := pageMargin, headerTop
	height := headerRows * headerRow
	textX := x + logoWidth
	textW := contentWidth - logoWidth

	cp.setColor(colorText)
	cp.c.Rect(x, y, contentWidth, height)
	cp.c.Line(textX, y, textX, y+height)
	cp.c.Line(textX, y+headerRow, x+contentWidth, y+headerRow)

	if cp.res != nil && cp.res.Logo != nil {
		err := cp.c.Image("logo", cp.res.Logo, x+(logoWidth-logoSide)/2, y+(height-logoSide)/2, logoSide, logoSide)
		if err != nil && page.Number == 1 {
			cp.logger.Warn("logo not drawn", zap.Error(err))
		}
	}

	title := DocumentTitle
	if cp.g.school != "" {
		title = cp.g.school + "  " + DocumentTitle
	}
	cp.centerText(textX, textW, y+headerRow*0.7, title, layout.StyleHeader, headerSize)

	year := cp.metaValue(fieldAcademicYear, (*SubmissionRecord).FormAcademicYear)
	semester := cp.metaValue(fieldSemester, (*SubmissionRecord).FormSemester)
	first := fmt.Sprintf("ปีการศึกษา %s  ภาคเรียนที่ %s  ระดับชั้น %s  ห้อง %s",
		year, semester, cp.metaValue(fieldGradeLevel, nil), cp.metaValue(fieldRoom, nil))
	second := fmt.Sprintf("รายวิชา %s  รหัสวิชา %s  ครูผู้สอน %s  หน่วยกิต %s",
		cp.metaValue(fieldSubject, nil), cp.metaValue(fieldSubjectCode, nil),
		cp.metaValue(fieldTeacher, nil), cp.metaValue(fieldCredit, nil))
	cp.fitText(textX+cellPadding, textW-2*cellPadding, y+headerRow+headerRow*0.7, first, bodySize)
	cp.fitText(textX+cellPadding, textW-2*cellPadding, y+2*headerRow+headerRow*0.7, second, bodySize)
}

// drawBanner prints the overall verdict on the first page.
func (cp *composer) drawBanner(failures int) {
	color := colorPass
	if failures > 0 {
		color = colorFail
	}
	cp.setColor(color)
	cp.centerText(pageMargin, contentWidth, bannerY, Banner(failures), layout.StyleHeader, titleSize)
	cp.setColor(colorText)
}

// drawTitle prints the phase title and returns the top of the table.
func (cp *composer) drawTitle(y float64, title string) float64 {
	cp.centerText(pageMargin, contentWidth, y, title, layout.StyleHeader, headerSize)
	return y + tableGap
}

// drawTable lays out and replays one phase table. It returns the table
// bottom.
func (cp *composer) drawTable(phase Phase, top float64) float64 {
	results := cp.results[phase]
	labels := cp.labels[phase]
	data := layout.TableData{Headers: TableHeaders, Rows: make([]layout.Row, len(labels))}
	for i, label := range labels {
		row := layout.Row{Description: label}
		if i < len(results) {
			row.Mark = markOf(results[i].Value)
			row.Note = results[i].Message
		}
		data.Rows[i] = row
	}

	grid := tableGrid
	grid.Y = top
	res := layout.Table(canvasMeasurer{c: cp.c, size: bodySize}, grid, data)
	if len(res.Overflow) > 0 {
		cp.logger.Debug("cell text exceeds row height",
			zap.Stringer("phase", phase), zap.Ints("rows", res.Overflow))
	}

	for _, op := range res.Ops {
		switch o := op.(type) {
		case layout.TextOp:
			cp.c.SetFont(o.Style, bodySize)
			cp.c.Text(o.X, o.Y, o.Text)
		case layout.LineOp:
			cp.c.Line(o.X1, o.Y1, o.X2, o.Y2)
		case layout.IconOp:
			cp.drawMark(o)
		}
	}
	return top + res.Height
}

func markOf(v Verdict) layout.Mark {
	switch v {
	case Pass:
		return layout.MarkPass
	case Fail:
		return layout.MarkFail
	default:
		return layout.MarkNone
	}
}

// drawMark draws the verdict glyph, or the verdict word when the glyph is
// unavailable.
func (cp *composer) drawMark(o layout.IconOp) {
	verdict, glyph, name, color := Pass, cp.res.passGlyph(), "pass", colorPass
	if o.Mark == layout.MarkFail {
		verdict, glyph, name, color = Fail, cp.res.failGlyph(), "fail", colorFail
	}
	if glyph != nil {
		err := cp.c.Image(name, glyph, o.X, o.Y, o.Size, o.Size)
		if err == nil {
			return
		}
		cp.logger.Debug("verdict glyph not drawn", zap.String("glyph", name), zap.Error(err))
	}
	cp.setColor(color)
	cp.centerText(o.X-o.Size, 3*o.Size, o.Y+o.Size*0.75, verdict.Label(), layout.StyleHeader, bodySize)
	cp.setColor(colorText)
}

// drawSignatures prints the three signature slots, each centered in a third
// of the content width.
func (cp *composer) drawSignatures(top float64) {
	w := contentWidth / 3
	for i, s := range cp.g.signatories {
		x := pageMargin + float64(i)*w
		name := "(.................................)"
		if s.Name != "" {
			name = "(" + s.Name + ")"
		}
		cp.centerText(x, w, top, "ลงชื่อ.................................", layout.StyleBody, bodySize)
		cp.centerText(x, w, top+signatureLine, name, layout.StyleBody, bodySize)
		cp.centerText(x, w, top+2*signatureLine, s.Role, layout.StyleBody, bodySize)
	}
}

// rawLine is one line of the raw data dump.
type rawLine struct {
	Text    string
	Heading bool
}

// drawRawData dumps the submission as key/value lines after the phase
// pages, adding pages as the cursor passes rawBottom.
func (cp *composer) drawRawData() {
	cp.newPage()
	y := float64(titleY)
	for i, line := range cp.rawLines() {
		if line.Heading && i > 0 {
			y += rawSectionGap
		}
		style := layout.StyleBody
		if line.Heading {
			style = layout.StyleHeader
		}
		cp.c.SetFont(style, bodySize)
		for _, text := range layout.Wrap(canvasMeasurer{c: cp.c, size: bodySize}, style, line.Text, contentWidth) {
			if y > rawBottom {
				cp.newPage()
				y = titleY
			}
			cp.c.SetFont(style, bodySize)
			cp.c.Text(pageMargin, y, text)
			y += rawLineHeight
		}
	}
}

// rawLines lists the scanned subject, the spreadsheet values in key order,
// the processing summary and the timestamps.
func (cp *composer) rawLines() []rawLine {
	rec := cp.rec
	var lines []rawLine
	kv := func(k, v string) {
		if v == "" {
			v = noData
		}
		lines = append(lines, rawLine{Text: k + ": " + v})
	}

	lines = append(lines, rawLine{Text: "ข้อมูลจากการสแกน ปพ.5 (SGS)", Heading: true})
	if s, ok := rec.OCRSubject(); ok {
		kv("รหัสวิชา", string(s.CourseID))
		kv("ชื่อวิชา", string(s.CourseName))
		kv("ปีการศึกษา", string(s.AcademicYear))
		kv("ภาคเรียน", string(s.Semester))
		kv("ระดับชั้น", string(s.GradeLevel))
		kv("ห้อง", string(s.Section))
		kv("ครูผู้สอน", string(s.Teacher))
		kv("ผลการเรียน", flagText(s.GradeValid))
		kv("คุณลักษณะอันพึงประสงค์", flagText(s.AttitudeValid))
		kv("การอ่าน คิดวิเคราะห์และเขียน", flagText(s.ReadAnalyzeWriteValid))
	} else {
		msg := noData
		if rec != nil && rec.OCR != nil && rec.OCR.Message != "" {
			msg = rec.OCR.Message
		}
		lines = append(lines, rawLine{Text: msg})
	}

	heading := "ข้อมูลจากไฟล์ Excel"
	if rec != nil && rec.Sheet != nil && rec.Sheet.SheetName != "" {
		heading += " (" + rec.Sheet.SheetName + ")"
	}
	lines = append(lines, rawLine{Text: heading, Heading: true})
	if rec == nil || rec.Sheet == nil || len(rec.Sheet.Data) == 0 {
		lines = append(lines, rawLine{Text: noData})
	} else {
		keys := make([]string, 0, len(rec.Sheet.Data))
		for k := range rec.Sheet.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv(k, formatScalar(rec.Sheet.Data[k]))
		}
	}

	lines = append(lines, rawLine{Text: "สรุปผลการประมวลผล", Heading: true})
	if rec == nil || rec.Summary == nil {
		lines = append(lines, rawLine{Text: noData})
	} else {
		s := rec.Summary
		kv("สถานะ", choose(s.Success, "สำเร็จ", "ล้มเหลว"))
		kv("ข้อความ", s.Message)
		kv("จำนวนแหล่งข้อมูล", fmt.Sprint(s.TotalDataSources))
		kv("มีข้อมูล Excel", choose(s.HasExcelData, "ใช่", "ไม่ใช่"))
		kv("มีข้อมูล PDF", choose(s.HasPdfData, "ใช่", "ไม่ใช่"))
	}

	lines = append(lines, rawLine{Text: "เวลา", Heading: true})
	if rec != nil && rec.Form != nil {
		kv("ส่งข้อมูลเมื่อ", cp.g.dates.Reformat(rec.Form.SubmittedAt))
	}
	if rec != nil && rec.Persistence != nil {
		kv("บันทึกเมื่อ", cp.g.dates.Reformat(rec.Persistence.SavedAt))
	}
	kv("สร้างรายงานเมื่อ", cp.g.dates.Format(cp.now))
	return lines
}

func flagText(b *bool) string {
	if b == nil {
		return noData
	}
	return choose(*b, Pass.Label(), Fail.Label())
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// postPass stamps the same verification code on every page once all pages
// exist. When the code cannot be drawn the identifier is printed as text on
// the last page.
func (cp *composer) postPass() {
	id, ok := cp.rec.UUID()
	if !ok {
		cp.logger.Debug("no verification identifier, skipping code")
		return
	}
	payload := vcode.Payload(cp.g.verifyURL, id)
	pages := cp.c.PageCount()

	png, err := cp.g.encoder.PNG(payload)
	if err == nil {
		for p := 1; p <= pages; p++ {
			cp.c.SetPage(p)
			if err = cp.c.Image(verifyImageName, png, verifyCodeX, verifyCodeY, verifyCodeSide, verifyCodeSide); err != nil {
				break
			}
			cp.centerText(verifyCodeX-verifyCodeSide/2, 2*verifyCodeSide,
				verifyCodeY+verifyCodeSide+captionGap, "สแกนเพื่อตรวจสอบเอกสาร", layout.StyleBody, captionSize)
		}
	}
	if err != nil {
		cp.logger.Warn("verification code not drawn, printing identifier", zap.Error(err))
		cp.c.SetPage(pages)
		text := "รหัสตรวจสอบเอกสาร: " + id
		cp.c.SetFont(layout.StyleBody, captionSize)
		cp.c.Text(pageWidth-pageMargin-cp.c.TextWidth(text), fallbackIDY, text)
	}
}

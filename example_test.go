package pp5_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pp5 "github.com/alnah/go-pp5"
)

const submission = `{
  "formData": {"academicYear": "2567", "semester": 1},
  "excelData": {"hasData": true, "data": {"home_academic_year": 2567, "home_semester": 1}},
  "database": {"uuid": "5b0c3d0e-8d6b-4f3e-a3f8-8f1f7f0e2d11"}
}`

// Example renders the report of one submission. Without an asset directory
// the report uses Helvetica and the embedded verdict glyphs.
func Example() {
	rec, err := pp5.DecodeSubmission(strings.NewReader(submission))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	gen, err := pp5.NewGenerator(pp5.WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	doc, err := gen.Generate(context.Background(), pp5.Input{Record: rec})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(doc.Filename)
	fmt.Println(doc.Pages, "pages")
	fmt.Println(doc.UUID)
	// Output:
	// report-pp5-2567-1-1717228800000.pdf
	// 3 pages
	// 5b0c3d0e-8d6b-4f3e-a3f8-8f1f7f0e2d11
}

// ExampleBanner shows the compliance line printed under each table.
func ExampleBanner() {
	fmt.Println(pp5.Banner(0))
	fmt.Println(pp5.Banner(3))
	// Output:
	// ผ่านการตรวจสอบครบทุกรายการ
	// ไม่ผ่านการตรวจสอบ 3 รายการ
}

// ExampleLabels lists the phases and how many checks each one runs.
func ExampleLabels() {
	for _, p := range pp5.Phases {
		fmt.Printf("%s: %d\n", p.Title(), len(pp5.Labels(p)))
	}
	// Output:
	// รายการตรวจก่อนกลางภาค: 14
	// รายการตรวจกลางภาค: 3
	// รายการตรวจปลายภาค: 11
}

// ExampleCheckResult shows the wire form of a verdict.
func ExampleCheckResult() {
	data, _ := json.Marshal([]pp5.CheckResult{
		{Value: pp5.Pass},
		{Value: pp5.Fail, Message: "ไม่ตรงกับแบบฟอร์ม"},
		{Value: pp5.NotApplicable},
	})
	fmt.Println(string(data))
	// Output: [{"value":"1"},{"value":"0","message":"ไม่ตรงกับแบบฟอร์ม"},{"value":""}]
}

// ExampleRulebook adapts the checking conventions to a school.
func ExampleRulebook() {
	rb := pp5.DefaultRulebook()
	rb.Honorifics = append(rb.Honorifics, "อาจารย์")

	gen, err := pp5.NewGenerator(pp5.WithRulebook(rb))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(gen.Rulebook().Honorifics) == len(rb.Honorifics))
	// Output: true
}

package pp5

import (
	"regexp"
	"strconv"
	"strings"
)

// check decides one rule for a record.
type check func(rec *SubmissionRecord) CheckResult

func missingField(key string) CheckResult {
	return failed("ไม่พบข้อมูล %s ในไฟล์ Excel", key)
}

// requirePresent passes when the sheet carries a non-empty value for key.
func requirePresent(key string) check {
	return func(rec *SubmissionRecord) CheckResult {
		if _, ok := rec.SheetString(key); !ok {
			return missingField(key)
		}
		return passed()
	}
}

// requireNumber passes when the sheet value for key is a JSON number.
func requireNumber(key string) check {
	return func(rec *SubmissionRecord) CheckResult {
		v, ok := rec.SheetValue(key)
		if !ok || v == nil {
			return missingField(key)
		}
		if _, ok := asNumber(v); !ok {
			return failed("%s ไม่เป็นตัวเลข (%s)", key, formatScalar(v))
		}
		return passed()
	}
}

// matchForm compares a form value with a sheet value after normalization.
// what names the compared item in messages.
func matchForm(what string, form func(*SubmissionRecord) (string, bool), key string) check {
	return func(rec *SubmissionRecord) CheckResult {
		formValue, ok := form(rec)
		if !ok {
			return failed("ไม่พบ%sในฟอร์ม", what)
		}
		v, ok := rec.SheetValue(key)
		if !ok || !present(v) {
			return missingField(key)
		}
		sheetValue := formatScalar(v)
		if normalize(formValue) != normalize(sheetValue) {
			return failed("%sในฟอร์ม (%s) ไม่ตรงกับไฟล์ Excel (%s)", what, formValue, sheetValue)
		}
		return passed()
	}
}

// multipleOf passes when key == factor × baseKey exactly.
func multipleOf(key, baseKey string, factor float64) check {
	return func(rec *SubmissionRecord) CheckResult {
		if res := requireNumber(key)(rec); res.Value == Fail {
			return res
		}
		if res := requireNumber(baseKey)(rec); res.Value == Fail {
			return res
		}
		got, _ := rec.SheetNumber(key)
		base, _ := rec.SheetNumber(baseKey)
		want := base * factor
		if got != want {
			return failed("%s (%s) ต้องเท่ากับ %s × %s (%s)",
				key, formatNumber(got), formatNumber(factor), baseKey, formatNumber(want))
		}
		return passed()
	}
}

// subjectCode checks that the code's first letter names the declared
// learning area and its second character agrees with the grade level.
func (rb *Rulebook) subjectCode(codeKey, areaKey, gradeKey string) check {
	return func(rec *SubmissionRecord) CheckResult {
		raw, ok := rec.SheetValue(codeKey)
		code, isString := raw.(string)
		code = normalize(code)
		if !ok || !isString || code == "" {
			return missingField(codeKey)
		}
		runes := []rune(code)
		if len(runes) < 2 {
			return failed("รหัสวิชา %s สั้นเกินไป", code)
		}
		area, ok := rec.SheetString(areaKey)
		if !ok {
			return missingField(areaKey)
		}
		grade, ok := rec.SheetString(gradeKey)
		if !ok {
			return missingField(gradeKey)
		}

		prefix := string(runes[0])
		wantArea, ok := rb.LearningAreas[prefix]
		if !ok {
			return failed("ไม่รู้จักอักษรนำหน้ารหัสวิชา %s (%s)", prefix, code)
		}
		if normalize(wantArea) != normalize(area) {
			return failed("รหัสวิชา %s เป็นกลุ่มสาระ %s แต่ไฟล์ Excel ระบุ %s", code, wantArea, area)
		}

		digit := string(runes[1])
		pattern, ok := rb.GradeLevels[digit]
		if !ok {
			return failed("ไม่รู้จักหลักระดับชั้น %s ในรหัสวิชา %s", digit, code)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return failed("รูปแบบระดับชั้นสำหรับหลัก %s ไม่ถูกต้อง", digit)
		}
		if !re.MatchString(normalize(grade)) {
			return failed("รหัสวิชา %s ไม่สอดคล้องกับระดับชั้น %s", code, grade)
		}
		return passed()
	}
}

// scoreSplit checks the score breakdown: every part numeric and the total
// equal to the expected value.
func (rb *Rulebook) scoreSplit() check {
	return func(rec *SubmissionRecord) CheckResult {
		var bad []string
		for _, key := range rb.ScoreParts {
			if _, ok := rec.SheetNumber(key); !ok {
				bad = append(bad, key)
			}
		}
		total, ok := rec.SheetNumber(rb.ScoreTotal)
		if !ok {
			bad = append(bad, rb.ScoreTotal)
		}
		if len(bad) > 0 {
			return failed("ข้อมูลไม่ครบหรือไม่เป็นตัวเลข: %s", strings.Join(bad, ", "))
		}
		if total != rb.ScoreExpected {
			return failed("%s (%s) ต้องเท่ากับ %s", rb.ScoreTotal, formatNumber(total), formatNumber(rb.ScoreExpected))
		}
		return passed()
	}
}

// matchScan compares a sheet value with a scanned value. Without scan data
// the rule does not apply.
func matchScan(what, key string, scanned func(*OcrSubject) LooseString, normalizeFn func(string) string) check {
	return func(rec *SubmissionRecord) CheckResult {
		subject, ok := rec.OCRSubject()
		if !ok {
			return notApplicable()
		}
		sheetValue, ok := rec.SheetString(key)
		if !ok {
			return missingField(key)
		}
		scanValue := string(scanned(subject))
		if normalize(scanValue) == "" {
			return failed("ไม่พบ%sในเอกสาร SGS", what)
		}
		if normalizeFn(sheetValue) != normalizeFn(scanValue) {
			return failed("%sในไฟล์ Excel (%s) ไม่ตรงกับเอกสาร SGS (%s)", what, sheetValue, scanValue)
		}
		return passed()
	}
}

// scanFlag reports a validity flag computed by the recognition service.
func scanFlag(field string, flag func(*OcrSubject) *bool) check {
	return func(rec *SubmissionRecord) CheckResult {
		subject, ok := rec.OCRSubject()
		if !ok {
			return notApplicable()
		}
		v := flag(subject)
		if v == nil {
			return failed("ไม่พบผล %s ในเอกสาร SGS", field)
		}
		if !*v {
			return failed("เอกสาร SGS ไม่ผ่านเกณฑ์ (%s)", field)
		}
		return passed()
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

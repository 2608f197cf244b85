package pp5

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// maxSubmissionSize bounds a decoded submission document.
const maxSubmissionSize = 8 << 20

// SubmissionRecord is the normalized input of one grading-sheet check.
// Every part is optional and every accessor tolerates missing parts.
// The record is never modified by evaluation or rendering.
type SubmissionRecord struct {
	Form        *FormInputs         `json:"formData,omitempty"`
	Sheet       *SpreadsheetExtract `json:"excelData,omitempty"`
	OCR         *OcrExtract         `json:"geminiOcrResult,omitempty"`
	Summary     *Summary            `json:"summary,omitempty"`
	Persistence *PersistenceInfo    `json:"database,omitempty"`
}

// FormInputs are the values typed by the submitting teacher.
type FormInputs struct {
	AcademicYear LooseString `json:"academicYear"`
	Semester     LooseString `json:"semester"`
	SubmittedAt  string      `json:"submittedAt,omitempty"`
	Timestamp    string      `json:"timestamp,omitempty"`
}

// SpreadsheetExtract is the key/value content of the checked sheet.
// Values are JSON scalars: string, json.Number or float64, bool or nil.
type SpreadsheetExtract struct {
	HasData    bool           `json:"hasData"`
	SheetName  string         `json:"sheetName,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	FileName   string         `json:"fileName,omitempty"`
	FileSize   int64          `json:"fileSize,omitempty"`
	UploadedAt string         `json:"uploadedAt,omitempty"`
}

// OcrExtract is the subject summary read from the scanned report.
type OcrExtract struct {
	HasData     bool        `json:"hasData"`
	Data        *OcrSubject `json:"data,omitempty"`
	ProcessedAt string      `json:"processedAt,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// OcrSubject holds the scanned subject metadata and the three validity flags
// computed by the recognition service.
type OcrSubject struct {
	CourseID              LooseString `json:"course_id"`
	CourseName            LooseString `json:"course_name"`
	AcademicYear          LooseString `json:"academic_year"`
	Semester              LooseString `json:"semester"`
	GradeLevel            LooseString `json:"grade_level"`
	Section               LooseString `json:"section"`
	Teacher               LooseString `json:"teacher"`
	GradeValid            *bool       `json:"grade_valid,omitempty"`
	AttitudeValid         *bool       `json:"attitude_valid,omitempty"`
	ReadAnalyzeWriteValid *bool       `json:"read_analyze_write_valid,omitempty"`
}

// Summary is the processing summary reported by the upload backend.
type Summary struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	HasExcelData     bool   `json:"hasExcelData"`
	HasPdfData       bool   `json:"hasPdfData"`
	TotalDataSources int    `json:"totalDataSources"`
}

// PersistenceInfo identifies the stored record. UUID is the verification
// payload.
type PersistenceInfo struct {
	RecordID string `json:"recordId,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	SavedAt  string `json:"savedAt,omitempty"`
}

// LooseString is a string that also accepts JSON numbers and booleans.
// A JSON null decodes to the empty string.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
	case len(data) == 0 || data[0] == '{' || data[0] == '[':
		return fmt.Errorf("cannot decode %s into a string", data)
	default:
		*s = LooseString(data)
	}
	return nil
}

// DecodeSubmission reads one submission document. The document is either
// the record itself or the verification envelope {"backendResponse": {...}}.
// Spreadsheet numbers keep their literal text as json.Number.
func DecodeSubmission(r io.Reader) (*SubmissionRecord, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxSubmissionSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if len(raw) > maxSubmissionSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidSubmission, maxSubmissionSize)
	}

	var envelope struct {
		BackendResponse json.RawMessage `json:"backendResponse"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if len(envelope.BackendResponse) > 0 && !bytes.Equal(envelope.BackendResponse, []byte("null")) {
		raw = envelope.BackendResponse
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec SubmissionRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return &rec, nil
}

// Validate checks the parts a backend response always carries: the form
// with its year, semester and timestamp, plus the three source blocks.
func (r *SubmissionRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidSubmission)
	}
	var missing []string
	if r.Form == nil {
		missing = append(missing, "formData")
	} else {
		if r.Form.AcademicYear == "" {
			missing = append(missing, "formData.academicYear")
		}
		if r.Form.Semester == "" {
			missing = append(missing, "formData.semester")
		}
		if r.Form.Timestamp == "" {
			missing = append(missing, "formData.timestamp")
		}
	}
	if r.Sheet == nil {
		missing = append(missing, "excelData")
	}
	if r.OCR == nil {
		missing = append(missing, "geminiOcrResult")
	}
	if r.Summary == nil {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidSubmission, strings.Join(missing, ", "))
	}
	return nil
}

// SheetValue returns the raw spreadsheet value for key.
// ok is false when the sheet, its data, or the key is absent.
func (r *SubmissionRecord) SheetValue(key string) (any, bool) {
	if r == nil || r.Sheet == nil || r.Sheet.Data == nil {
		return nil, false
	}
	v, ok := r.Sheet.Data[key]
	return v, ok
}

// SheetString returns the display text of a present spreadsheet value.
// Empty strings, zero numbers, false and null count as absent.
func (r *SubmissionRecord) SheetString(key string) (string, bool) {
	v, ok := r.SheetValue(key)
	if !ok || !present(v) {
		return "", false
	}
	return formatScalar(v), true
}

// SheetNumber returns a spreadsheet value that was a JSON number.
// Numeric-looking strings are not numbers.
func (r *SubmissionRecord) SheetNumber(key string) (float64, bool) {
	v, ok := r.SheetValue(key)
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

// FormAcademicYear returns the academic year typed in the form.
func (r *SubmissionRecord) FormAcademicYear() (string, bool) {
	if r == nil || r.Form == nil || r.Form.AcademicYear == "" {
		return "", false
	}
	return string(r.Form.AcademicYear), true
}

// FormSemester returns the semester typed in the form.
func (r *SubmissionRecord) FormSemester() (string, bool) {
	if r == nil || r.Form == nil || r.Form.Semester == "" {
		return "", false
	}
	return string(r.Form.Semester), true
}

// OCRSubject returns the scanned subject when recognition produced data.
func (r *SubmissionRecord) OCRSubject() (*OcrSubject, bool) {
	if r == nil || r.OCR == nil || !r.OCR.HasData || r.OCR.Data == nil {
		return nil, false
	}
	return r.OCR.Data, true
}

// UUID returns the persisted verification identifier.
func (r *SubmissionRecord) UUID() (string, bool) {
	if r == nil || r.Persistence == nil {
		return "", false
	}
	id := strings.TrimSpace(r.Persistence.UUID)
	return id, id != ""
}

// present mirrors the truthiness the sheet extractor relies on.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	}
	if n, ok := asNumber(v); ok {
		return n != 0
	}
	return true
}

// asNumber converts JSON numbers and Go numeric kinds to float64.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

// formatScalar renders a sheet value as text. Numbers use their shortest
// form, so 1.0 and 1 both read "1".
func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := asNumber(v); ok {
		return formatNumber(f)
	}
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return fmt.Sprint(v)
}

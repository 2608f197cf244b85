package pp5

import (
	"fmt"
	"strconv"
)

// Verdict is the tri-state outcome of one rule.
type Verdict int

const (
	// NotApplicable means the rule's source data was not available.
	NotApplicable Verdict = iota
	Pass
	Fail
)

// String returns a short English label for logs.
func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "n/a"
	}
}

// Label returns the Thai text printed when no verdict glyph is available.
func (v Verdict) Label() string {
	switch v {
	case Pass:
		return "ผ่าน"
	case Fail:
		return "ไม่ผ่าน"
	default:
		return ""
	}
}

// MarshalText encodes the verdict as "1", "0" or "" like the upload backend.
func (v Verdict) MarshalText() ([]byte, error) {
	switch v {
	case Pass:
		return []byte("1"), nil
	case Fail:
		return []byte("0"), nil
	default:
		return []byte(""), nil
	}
}

// UnmarshalText decodes "1", "0" and "".
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1":
		*v = Pass
	case "0":
		*v = Fail
	case "":
		*v = NotApplicable
	default:
		return fmt.Errorf("invalid verdict %s", strconv.Quote(string(text)))
	}
	return nil
}

// CheckResult is the outcome of one rule. Fail always carries a message.
type CheckResult struct {
	Value   Verdict `json:"value"`
	Message string  `json:"message,omitempty"`
}

func passed() CheckResult { return CheckResult{Value: Pass} }

func notApplicable() CheckResult { return CheckResult{Value: NotApplicable} }

func failed(format string, args ...any) CheckResult {
	return CheckResult{Value: Fail, Message: fmt.Sprintf(format, args...)}
}

// Phase is one of the three fixed rule groups of a semester.
type Phase int

const (
	PreMidterm Phase = iota
	Midterm
	Final
)

// Phases lists the phases in page order.
var Phases = [...]Phase{PreMidterm, Midterm, Final}

// String returns the identifier used on the command line and in logs.
func (p Phase) String() string {
	switch p {
	case PreMidterm:
		return "pre-midterm"
	case Midterm:
		return "midterm"
	case Final:
		return "final"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Title returns the heading printed above the phase table.
func (p Phase) Title() string {
	switch p {
	case PreMidterm:
		return "รายการตรวจก่อนกลางภาค"
	case Midterm:
		return "รายการตรวจกลางภาค"
	case Final:
		return "รายการตรวจปลายภาค"
	default:
		return ""
	}
}

// PhaseResults holds the evaluated lists of the three phases.
type PhaseResults [len(Phases)][]CheckResult

// Failures counts failed results over all phases.
func (r PhaseResults) Failures() int {
	return CountFailures(r[:]...)
}

// CountFailures counts Fail results. Pass and NotApplicable are ignored.
func CountFailures(lists ...[]CheckResult) int {
	n := 0
	for _, list := range lists {
		for _, res := range list {
			if res.Value == Fail {
				n++
			}
		}
	}
	return n
}

// Banner returns the overall compliance line for a failure count.
func Banner(failures int) string {
	if failures == 0 {
		return "ผ่านการตรวจสอบครบทุกรายการ"
	}
	return fmt.Sprintf("ไม่ผ่านการตรวจสอบ %d รายการ", failures)
}

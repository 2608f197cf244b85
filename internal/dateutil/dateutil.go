// Package dateutil formats timestamps the way Thai school documents print
// them: Thai month names and Buddhist-era years.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when no format is configured.
const DefaultDateFormat = "thai"

// buddhistOffset converts a Gregorian year to the Buddhist era.
const buddhistOffset = 543

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"thai":  "D MMMM BBBB HH:mm:ss",
	"short": "DD/MM/BBBB",
	"iso":   "YYYY-MM-DD HH:mm:ss",
}

var thaiMonths = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var thaiMonthsShort = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// dateTokens maps format tokens to renderers.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token  string
	render func(time.Time) string
}{
	{"BBBB", func(t time.Time) string { return strconv.Itoa(t.Year() + buddhistOffset) }},
	{"YYYY", func(t time.Time) string { return strconv.Itoa(t.Year()) }},
	{"MMMM", func(t time.Time) string { return thaiMonths[t.Month()-1] }},
	{"MMM", func(t time.Time) string { return thaiMonthsShort[t.Month()-1] }},
	{"BB", func(t time.Time) string { return pad2((t.Year() + buddhistOffset) % 100) }},
	{"YY", func(t time.Time) string { return pad2(t.Year() % 100) }},
	{"MM", func(t time.Time) string { return pad2(int(t.Month())) }},
	{"DD", func(t time.Time) string { return pad2(t.Day()) }},
	{"HH", func(t time.Time) string { return pad2(t.Hour()) }},
	{"mm", func(t time.Time) string { return pad2(t.Minute()) }},
	{"ss", func(t time.Time) string { return pad2(t.Second()) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// inputLayouts are the timestamp shapes found in submissions.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Layout is a compiled date format. The zero value prints nothing.
type Layout struct {
	parts []part
	loc   *time.Location
}

// part is either a literal or a token renderer.
type part struct {
	literal string
	render  func(time.Time) string
}

// Compile parses a format string or preset name.
// Tokens: BBBB, BB (Buddhist era), YYYY, YY, MMMM, MMM (Thai month names),
// MM, M, DD, D, HH, mm, ss.
// Use brackets to escape literal text: [เวลา] preserves "เวลา" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has
// unclosed brackets.
func Compile(format string) (Layout, error) {
	if format == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var l Layout
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.parts = append(l.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				flush()
				l.parts = append(l.parts, part{render: t.render})
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()
	return l, nil
}

// MustCompile is like Compile but panics on an invalid format.
func MustCompile(format string) Layout {
	l, err := Compile(format)
	if err != nil {
		panic(err)
	}
	return l
}

// In returns a copy of l that converts times to loc before printing.
// A nil loc keeps each time's own location.
func (l Layout) In(loc *time.Location) Layout {
	l.loc = loc
	return l
}

// Format renders t.
func (l Layout) Format(t time.Time) string {
	if l.loc != nil {
		t = t.In(l.loc)
	}
	var b strings.Builder
	for _, p := range l.parts {
		if p.render != nil {
			b.WriteString(p.render(t))
		} else {
			b.WriteString(p.literal)
		}
	}
	return b.String()
}

// Reformat parses a submission timestamp and renders it with l. Values that
// are not recognized timestamps are returned trimmed but otherwise unchanged.
func (l Layout) Reformat(value string) string {
	value = strings.TrimSpace(value)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return l.Format(t)
		}
	}
	return value
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

package dateutil

import (
	"errors"
	"testing"
	"time"
)

var sample = time.Date(2024, time.June, 1, 8, 5, 9, 0, time.UTC)

func TestCompile_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{name: "Buddhist year", format: "BBBB", want: "2567"},
		{name: "short Buddhist year", format: "BB", want: "67"},
		{name: "Gregorian year", format: "YYYY", want: "2024"},
		{name: "short Gregorian year", format: "YY", want: "24"},
		{name: "Thai month", format: "MMMM", want: "มิถุนายน"},
		{name: "abbreviated Thai month", format: "MMM", want: "มิ.ย."},
		{name: "padded month", format: "MM", want: "06"},
		{name: "month", format: "M", want: "6"},
		{name: "padded day", format: "DD", want: "01"},
		{name: "day", format: "D", want: "1"},
		{name: "clock", format: "HH:mm:ss", want: "08:05:09"},
		{name: "thai preset", format: "thai", want: "1 มิถุนายน 2567 08:05:09"},
		{name: "preset is case insensitive", format: "ISO", want: "2024-06-01 08:05:09"},
		{name: "short preset", format: "short", want: "01/06/2567"},
		{name: "escaped literal", format: "[วันที่] D MMM BB", want: "วันที่ 1 มิ.ย. 67"},
		{name: "escaped token letters", format: "[MM]-MM", want: "MM-06"},
		{name: "literal characters", format: "พ.ศ. BBBB", want: "พ.ศ. 2567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := Compile(tt.format)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.format, err)
			}
			if got := l.Format(sample); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	for name, format := range map[string]string{
		"empty":            "",
		"unclosed bracket": "[D MMMM",
		"too long":         "DD/MM/BBBB DD/MM/BBBB DD/MM/BBBB DD/MM/BBBB DD/MM/BBBB",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := Compile(format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("Compile(%q) error = %v, want ErrInvalidDateFormat", format, err)
			}
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustCompile(\"\") did not panic")
		}
	}()
	MustCompile("")
}

func TestLayout_In(t *testing.T) {
	t.Parallel()

	bangkok := time.FixedZone("ICT", 7*3600)
	l := MustCompile("iso").In(bangkok)
	if got := l.Format(sample); got != "2024-06-01 15:05:09" {
		t.Errorf("Format() = %q", got)
	}

	// The year changes with the zone near midnight.
	late := time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC)
	if got := MustCompile("BBBB").In(bangkok).Format(late); got != "2568" {
		t.Errorf("Format(late) = %q, want 2568", got)
	}
}

func TestLayout_Reformat(t *testing.T) {
	t.Parallel()

	l := MustCompile("short")
	tests := map[string]string{
		"2024-06-01T08:00:00Z":          "01/06/2567",
		"2024-06-01T08:00:00.123+07:00": "01/06/2567",
		" 2024-06-01 08:00:00 ":         "01/06/2567",
		"2024-06-01":                    "01/06/2567",
		"เมื่อวานนี้":                   "เมื่อวานนี้",
		"":                              "",
	}
	for in, want := range tests {
		if got := l.Reformat(in); got != want {
			t.Errorf("Reformat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLayout_ZeroValue(t *testing.T) {
	t.Parallel()

	if got := (Layout{}).Format(sample); got != "" {
		t.Errorf("zero Layout Format() = %q, want empty", got)
	}
}

package pp5

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Rulebook holds the institution conventions the rules check against.
// The zero value is not usable; start from DefaultRulebook.
type Rulebook struct {
	// LearningAreas maps the first letter of a subject code to the learning
	// area name the sheet must declare.
	LearningAreas map[string]string

	// GradeLevels maps the second character of a subject code to a pattern
	// the sheet's grade level must match.
	GradeLevels map[string]string

	// Honorifics are stripped from the start of teacher names before
	// comparing sources.
	Honorifics []string

	// ScoreParts must all be numeric and ScoreTotal must equal
	// ScoreExpected exactly.
	ScoreParts    []string
	ScoreTotal    string
	ScoreExpected float64

	// PeriodsPerCredit relates weekly study periods to credits.
	PeriodsPerCredit float64

	// HoursPerCredit relates total semester hours to credits.
	HoursPerCredit float64
}

// DefaultRulebook returns the conventions of the lower and upper secondary
// curriculum.
func DefaultRulebook() *Rulebook {
	return &Rulebook{
		LearningAreas: map[string]string{
			"ว": "วิทยาศาสตร์และเทคโนโลยี",
			"ค": "คณิตศาสตร์",
			"ส": "สังคมศึกษา",
			"อ": "ภาษาอังกฤษ",
			"ท": "ภาษาไทย",
			"ศ": "ศิลปะ",
			"พ": "สุขศึกษาและพลศึกษา",
			"ง": "การงานอาชีพ",
		},
		GradeLevels: map[string]string{
			"2": `^ม\.([123])$`,
			"3": `^ม\.([456])$`,
		},
		Honorifics: []string{
			"ว่าที่ร้อยตรี", "นางสาว", "นาง", "นาย", "ครู", "ดร.",
			"Mrs.", "Miss", "Mr.", "Ms.",
		},
		ScoreParts:       []string{"02_k", "02_p", "02_a", "02_midterm", "02_final"},
		ScoreTotal:       "02_total",
		ScoreExpected:    100,
		PeriodsPerCredit: 2,
		HoursPerCredit:   40,
	}
}

// Clone returns a deep copy that can be modified independently.
func (rb *Rulebook) Clone() *Rulebook {
	c := *rb
	c.LearningAreas = maps.Clone(rb.LearningAreas)
	c.GradeLevels = maps.Clone(rb.GradeLevels)
	c.Honorifics = slices.Clone(rb.Honorifics)
	c.ScoreParts = slices.Clone(rb.ScoreParts)
	return &c
}

// Validate checks that patterns compile and the numeric relations are usable.
func (rb *Rulebook) Validate() error {
	if rb == nil {
		return fmt.Errorf("%w: nil rulebook", ErrInvalidRulebook)
	}
	for prefix, area := range rb.LearningAreas {
		if utf8.RuneCountInString(prefix) != 1 || strings.TrimSpace(area) == "" {
			return fmt.Errorf("%w: learning area %q: %q", ErrInvalidRulebook, prefix, area)
		}
	}
	for digit, pattern := range rb.GradeLevels {
		if utf8.RuneCountInString(digit) != 1 {
			return fmt.Errorf("%w: grade level key %q must be one character", ErrInvalidRulebook, digit)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: grade level %q: %v", ErrInvalidRulebook, digit, err)
		}
	}
	if len(rb.ScoreParts) == 0 || rb.ScoreTotal == "" {
		return fmt.Errorf("%w: score parts and total are required", ErrInvalidRulebook)
	}
	if rb.PeriodsPerCredit <= 0 || rb.HoursPerCredit <= 0 {
		return fmt.Errorf("%w: credit multipliers must be positive", ErrInvalidRulebook)
	}
	return nil
}

// normalize trims and composes text so that visually equal values compare
// equal regardless of how combining marks were typed.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// normalizeName additionally removes leading honorifics and collapses runs of
// spaces.
func (rb *Rulebook) normalizeName(s string) string {
	s = normalize(s)
	prefixes := slices.Clone(rb.Honorifics)
	slices.SortStableFunc(prefixes, func(a, b string) int {
		return len(b) - len(a)
	})
	for stripped := true; stripped; {
		stripped = false
		for _, h := range prefixes {
			h = normalize(h)
			if h != "" && strings.HasPrefix(s, h) {
				s = strings.TrimSpace(strings.TrimPrefix(s, h))
				stripped = true
				break
			}
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

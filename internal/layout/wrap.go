package layout

import "strings"

// Wrap breaks text into lines no wider than maxWidth, measured with m in the
// given style. Words are separated by whitespace and never split: a single
// word wider than maxWidth gets a line of its own.
// Returns nil for blank text.
func Wrap(m Measurer, style Style, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && m.TextWidth(style, candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// blockBaseline returns the baseline of the first of n lines centered
// vertically inside a box starting at top.
func blockBaseline(top, height float64, n int, lineHeight float64) float64 {
	return top + (height-float64(n)*lineHeight)/2 + lineHeight*baselineRatio
}

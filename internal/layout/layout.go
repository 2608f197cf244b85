// Package layout computes the geometry of the fixed-row check tables.
//
// The engine never draws. It turns a Grid and TableData into absolute draw
// operations that a page composer replays on its drawing surface, so the
// layout rules can be tested against a fake Measurer.
package layout

import "strconv"

// Style selects the typeface variant used to measure and draw a text run.
type Style int

const (
	StyleBody Style = iota
	StyleHeader
)

// Mark selects the glyph drawn in the verdict column.
type Mark int

const (
	MarkNone Mark = iota
	MarkPass
	MarkFail
)

// Measurer reports the rendered width of s in the given style, in the same
// unit as the Grid.
type Measurer interface {
	TextWidth(style Style, s string) float64
}

// ColumnRatios are the width shares of the ordinal, description, verdict and
// note columns.
var ColumnRatios = [4]float64{0.10, 0.40, 0.10, 0.40}

// baselineRatio positions a baseline inside its line box.
const baselineRatio = 0.7

// Grid places a table on the page.
type Grid struct {
	X, Y       float64 // top-left corner
	Width      float64 // total table width
	RowHeight  float64 // fixed height of every row, header included
	LineHeight float64 // distance between wrapped lines
	Margin     float64 // horizontal padding subtracted from wrapped cells
	IconSize   float64 // side of the square verdict glyph
}

// Row is one check line of a table.
type Row struct {
	Description string
	Mark        Mark
	Note        string
}

// TableData holds the content of one table.
type TableData struct {
	Headers [4]string
	Rows    []Row
}

// Column is the resolved horizontal extent of a column.
type Column struct {
	X     float64
	Width float64
}

// Op is a resolved drawing operation.
type Op interface {
	op()
}

// TextOp draws Text with its baseline starting at (X, Y).
type TextOp struct {
	X, Y  float64
	Text  string
	Style Style
}

// LineOp draws a straight grid line.
type LineOp struct {
	X1, Y1, X2, Y2 float64
}

// IconOp draws a verdict glyph with its top-left corner at (X, Y).
type IconOp struct {
	X, Y, Size float64
	Mark       Mark
}

func (TextOp) op() {}
func (LineOp) op() {}
func (IconOp) op() {}

// Result is the laid-out table.
type Result struct {
	Height float64
	Ops    []Op
	// Overflow lists the indexes of rows whose wrapped text is taller than
	// the fixed row height. Those rows are drawn anyway.
	Overflow []int
}

// Columns splits the grid width according to ColumnRatios.
func Columns(g Grid) [4]Column {
	var cols [4]Column
	x := g.X
	for i, ratio := range ColumnRatios {
		w := g.Width * ratio
		cols[i] = Column{X: x, Width: w}
		x += w
	}
	return cols
}

// Table lays out a header row followed by one fixed-height row per item.
func Table(m Measurer, g Grid, t TableData) Result {
	cols := Columns(g)
	rows := len(t.Rows) + 1
	res := Result{Height: g.RowHeight * float64(rows)}

	for i, h := range t.Headers {
		res.Ops = append(res.Ops, centered(m, StyleHeader, h, cols[i], g.Y, g))
	}

	for i, row := range t.Rows {
		top := g.Y + g.RowHeight*float64(i+1)

		res.Ops = append(res.Ops, centered(m, StyleBody, strconv.Itoa(i+1), cols[0], top, g))

		descOps, descOver := wrapped(m, row.Description, cols[1], top, g)
		res.Ops = append(res.Ops, descOps...)

		if row.Mark != MarkNone {
			res.Ops = append(res.Ops, IconOp{
				X:    cols[2].X + (cols[2].Width-g.IconSize)/2,
				Y:    top + (g.RowHeight-g.IconSize)/2,
				Size: g.IconSize,
				Mark: row.Mark,
			})
		}

		noteOps, noteOver := wrapped(m, row.Note, cols[3], top, g)
		res.Ops = append(res.Ops, noteOps...)

		if descOver || noteOver {
			res.Overflow = append(res.Overflow, i)
		}
	}

	res.Ops = append(res.Ops, gridLines(cols, g, rows)...)
	return res
}

// centered places a single unwrapped line in the middle of a cell.
func centered(m Measurer, style Style, text string, col Column, top float64, g Grid) TextOp {
	return TextOp{
		X:     col.X + (col.Width-m.TextWidth(style, text))/2,
		Y:     blockBaseline(top, g.RowHeight, 1, g.LineHeight),
		Text:  text,
		Style: style,
	}
}

// wrapped places left-aligned wrapped lines centered as a block.
// Reports whether the block is taller than the row.
func wrapped(m Measurer, text string, col Column, top float64, g Grid) ([]Op, bool) {
	lines := Wrap(m, StyleBody, text, col.Width-g.Margin)
	if len(lines) == 0 {
		return nil, false
	}
	y := blockBaseline(top, g.RowHeight, len(lines), g.LineHeight)
	ops := make([]Op, 0, len(lines))
	for _, line := range lines {
		ops = append(ops, TextOp{X: col.X + g.Margin/2, Y: y, Text: line, Style: StyleBody})
		y += g.LineHeight
	}
	return ops, float64(len(lines))*g.LineHeight > g.RowHeight
}

func gridLines(cols [4]Column, g Grid, rows int) []Op {
	bottom := g.Y + g.RowHeight*float64(rows)
	right := g.X + g.Width
	ops := make([]Op, 0, rows+1+len(cols)+1)
	for r := 0; r <= rows; r++ {
		y := g.Y + g.RowHeight*float64(r)
		ops = append(ops, LineOp{X1: g.X, Y1: y, X2: right, Y2: y})
	}
	for _, c := range cols {
		ops = append(ops, LineOp{X1: c.X, Y1: g.Y, X2: c.X, Y2: bottom})
	}
	ops = append(ops, LineOp{X1: right, Y1: g.Y, X2: right, Y2: bottom})
	return ops
}

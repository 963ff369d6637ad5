package source

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// glyph is a positioned piece of text from a page content stream. Y is the
// baseline, increasing upward.
type glyph struct {
	Text string
	Font string
	Size float64
	X    float64
	Y    float64
	W    float64
}

// textLine is a run of glyphs sharing a baseline
type textLine struct {
	Text     string
	Size     float64 // largest glyph size on the line
	Bold     bool    // every visible glyph uses a bold face
	X0, X1   float64
	Baseline float64
	Chars    int
}

// top returns the upper edge of the line
func (l textLine) top() float64 {
	return l.Baseline + l.Size
}

const (
	// lineTolerance is the baseline distance, as a fraction of font size,
	// within which glyphs belong to the same line
	lineTolerance = 0.5

	// spaceGap is the horizontal gap, as a fraction of font size, that
	// separates two words
	spaceGap = 0.3

	// glyphAdvance estimates glyph width, as a fraction of font size, when
	// the font carries no width table
	glyphAdvance = 0.5
)

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demibold"}

// isBoldFont reports whether a font name denotes a bold face
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// groupLines assembles glyphs into lines, top to bottom. Glyphs are first
// ordered by baseline, then split wherever the baseline moves by more than
// lineTolerance of the font size. Within a line glyphs are ordered left to
// right; glyphs at the same X keep their content stream order.
func groupLines(glyphs []glyph) []textLine {
	sorted := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.Size > 0 && g.Text != "" {
			sorted = append(sorted, g)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines []textLine
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) {
			tol := math.Max(sorted[i].Size, sorted[start].Size) * lineTolerance
			if math.Abs(sorted[start].Y-sorted[i].Y) <= tol {
				continue
			}
		}
		if line, ok := assembleLine(sorted[start:i]); ok {
			lines = append(lines, line)
		}
		start = i
	}
	return lines
}

// assembleLine joins the glyphs of one line into text with word spacing
// recovered from horizontal gaps
func assembleLine(glyphs []glyph) (textLine, bool) {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var b strings.Builder
	line := textLine{
		Baseline: glyphs[0].Y,
		X0:       glyphs[0].X,
		Bold:     true,
	}
	visible := 0
	end := glyphs[0].X

	for i, g := range glyphs {
		w := g.W
		if w <= 0 {
			w = g.Size * glyphAdvance * float64(len([]rune(g.Text)))
		}

		x := g.X
		if i > 0 {
			// No width table: consecutive glyphs report the same origin
			if x <= glyphs[i-1].X && glyphs[i-1].W <= 0 {
				x = end
			}
			if x-end > g.Size*spaceGap {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.Text)
		end = math.Max(end, x+w)

		if g.Size > line.Size {
			line.Size = g.Size
		}
		if g.Y < line.Baseline {
			line.Baseline = g.Y
		}
		if strings.TrimFunc(g.Text, unicode.IsSpace) != "" {
			visible++
			if !isBoldFont(g.Font) {
				line.Bold = false
			}
		}
	}

	line.Text = cleanText(b.String())
	if line.Text == "" || visible == 0 {
		return textLine{}, false
	}
	line.X1 = end
	line.Chars = len([]rune(line.Text))
	return line, true
}

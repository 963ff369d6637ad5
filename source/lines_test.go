package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphsAt spreads text into one glyph per rune, all at the same origin
// with no width, the way fonts without width tables are reported
func glyphsAt(text, font string, size, x, y float64) []glyph {
	var out []glyph
	for _, r := range text {
		out = append(out, glyph{Text: string(r), Font: font, Size: size, X: x, Y: y})
	}
	return out
}

func TestGroupLinesWithoutWidths(t *testing.T) {
	var glyphs []glyph
	glyphs = append(glyphs, glyphsAt("Body text here", "Helvetica", 11, 72, 600)...)
	glyphs = append(glyphs, glyphsAt("1. Introduction", "Helvetica-Bold", 16, 72, 650)...)

	lines := groupLines(glyphs)
	require.Len(t, lines, 2)

	assert.Equal(t, "1. Introduction", lines[0].Text, "lines run top to bottom")
	assert.True(t, lines[0].Bold)
	assert.Equal(t, 16.0, lines[0].Size)
	assert.Equal(t, 650.0, lines[0].Baseline)
	assert.Equal(t, 72.0, lines[0].X0)
	assert.InDelta(t, 72+15*16*glyphAdvance, lines[0].X1, 0.001)
	assert.Equal(t, 15, lines[0].Chars)

	assert.Equal(t, "Body text here", lines[1].Text)
	assert.False(t, lines[1].Bold)
}

func TestGroupLinesWordGaps(t *testing.T) {
	glyphs := []glyph{
		{Text: "Chapter", Font: "Times-Roman", Size: 12, X: 72, Y: 700, W: 40},
		{Text: "2", Font: "Times-Roman", Size: 12, X: 120, Y: 700, W: 6},
		{Text: "s", Font: "Times-Roman", Size: 12, X: 126, Y: 700.5, W: 5},
	}

	lines := groupLines(glyphs)
	require.Len(t, lines, 1)
	assert.Equal(t, "Chapter 2s", lines[0].Text)
	assert.Equal(t, 700.0, lines[0].Baseline)
	assert.Equal(t, 131.0, lines[0].X1)
}

func TestGroupLinesMixedWeights(t *testing.T) {
	var glyphs []glyph
	glyphs = append(glyphs, glyphsAt("Note:", "Arial-BoldMT", 11, 72, 500)...)
	glyphs = append(glyphs, glyphsAt("plain", "ArialMT", 11, 200, 500)...)

	lines := groupLines(glyphs)
	require.Len(t, lines, 1)
	assert.Equal(t, "Note: plain", lines[0].Text)
	assert.False(t, lines[0].Bold)
}

func TestGroupLinesSkipsBlank(t *testing.T) {
	glyphs := []glyph{
		{Text: " ", Font: "Helvetica-Bold", Size: 12, X: 72, Y: 700},
		{Text: "x", Font: "Helvetica", Size: 0, X: 72, Y: 650},
	}
	assert.Empty(t, groupLines(glyphs))
	assert.Empty(t, groupLines(nil))
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"Helvetica-Bold", true},
		{"ABCDEF+Roboto-Black", true},
		{"SourceSansPro-Semibold", true},
		{"Arial,BoldItalic", true},
		{"Futura-Heavy", true},
		{"Helvetica", false},
		{"Times-Italic", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isBoldFont(tt.font), tt.font)
	}
}

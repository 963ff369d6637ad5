package source

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/outline/model"
)

// Formats without a font model (HTML, Markdown, EPUB) are rendered at these
// nominal point sizes, indexed by heading level 1-6.
const nominalBodySize = 12.0

var levelSizes = [...]float64{0, 24, 18, 15, 13, 12, 12}

// levelStyle returns the nominal style of a structural heading level
func levelStyle(level int) model.Style {
	if level < 1 || level >= len(levelSizes) {
		return model.Style{MaxSize: nominalBodySize}
	}
	return model.Style{MaxSize: levelSizes[level], Bold: true}
}

// cleanText applies NFKC normalization and collapses runs of whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// SizeSample is the font size of a run of text and its character count
type SizeSample struct {
	Size  float64
	Chars int
}

// EstimateBodySize returns the most common font size weighted by character
// count, bucketed to 0.5pt. Ties go to the smaller size. It returns 0 when
// no sample has a positive size and characters.
func EstimateBodySize(samples []SizeSample) float64 {
	weights := make(map[float64]int)
	for _, s := range samples {
		if s.Chars <= 0 || !(s.Size > 0) || math.IsInf(s.Size, 0) {
			continue
		}
		weights[math.Round(s.Size*2)/2] += s.Chars
	}
	if len(weights) == 0 {
		return 0
	}

	sizes := make([]float64, 0, len(weights))
	for size := range weights {
		sizes = append(sizes, size)
	}
	sort.Float64s(sizes)

	best := sizes[0]
	for _, size := range sizes[1:] {
		if weights[size] > weights[best] {
			best = size
		}
	}
	return best
}

// treeBuilder nests headings into sections as they arrive in reading
// order. A heading becomes the child of the nearest preceding heading that
// is strictly more prominent.
type treeBuilder struct {
	doc   *model.Document
	stack []frame
}

type frame struct {
	section    *model.Section
	prominence float64
}

func newTreeBuilder(doc *model.Document) *treeBuilder {
	return &treeBuilder{doc: doc}
}

// add appends h to the tree. Higher prominence means a more important
// heading.
func (b *treeBuilder) add(h *model.Heading, prominence float64) *model.Section {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].prominence <= prominence {
		b.stack = b.stack[:len(b.stack)-1]
	}

	s := &model.Section{Heading: h}
	if len(b.stack) == 0 {
		b.doc.AddSection(s)
	} else {
		b.stack[len(b.stack)-1].section.AddChild(s)
	}
	b.stack = append(b.stack, frame{section: s, prominence: prominence})
	return s
}

// styleProminence ranks a heading style for nesting; bold breaks ties
// between equal sizes
func styleProminence(st model.Style) float64 {
	p := st.MaxSize
	if st.Bold {
		p += 0.25
	}
	return p
}

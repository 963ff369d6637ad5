package source

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/tsawler/outline/model"
)

// Default page size (US Letter) for pages without a usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFSource reads PDF files. Glyphs are grouped into lines; lines set
// noticeably larger than the body text, or entirely in a bold face, become
// heading candidates nested by font size. Running headers, footers and page
// numbers are dropped first.
type PDFSource struct {
	// HeadingSizeDelta is how many points above the body size a line must
	// be to count as a heading candidate without being bold
	HeadingSizeDelta float64

	// MergeGap joins consecutive candidate lines of the same style whose
	// baselines are at most MergeGap font sizes apart
	MergeGap float64

	filter runningFilter
}

// NewPDFSource creates a PDF adapter with default settings
func NewPDFSource() *PDFSource {
	return &PDFSource{
		HeadingSizeDelta: 1.0,
		MergeGap:         1.5,
		filter:           defaultRunningFilter(),
	}
}

// Load parses the PDF. The PDF library reports some malformed input by
// panicking; such panics are returned as errors.
func (s *PDFSource) Load(r io.Reader, filename string) (doc *model.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("source: malformed pdf %s: %v", filename, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("source: open pdf %s: %w", filename, err)
	}

	pages := make([]pageLines, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		w, h := mediaBox(page)
		pages = append(pages, pageLines{
			Index:  i - 1,
			Width:  w,
			Height: h,
			Lines:  groupLines(pageGlyphs(page)),
		})
	}

	pages = s.filter.apply(pages)
	doc = s.build(pages)
	doc.Metadata.Custom["pages"] = strconv.Itoa(reader.NumPage())
	return doc, nil
}

// pageGlyphs converts the page text into glyphs
func pageGlyphs(page pdflib.Page) []glyph {
	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{
			Text: t.S,
			Font: t.Font,
			Size: math.Abs(t.FontSize),
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
		})
	}
	return glyphs
}

// mediaBox returns the page size, following the inherited MediaBox up the
// page tree
func mediaBox(page pdflib.Page) (width, height float64) {
	v := page.V
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			width = math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
			height = math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
			if width > 0 && height > 0 {
				return width, height
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// build estimates the body size and turns candidate lines into a section
// tree
func (s *PDFSource) build(pages []pageLines) *model.Document {
	doc := model.NewDocument()

	var samples []SizeSample
	for _, p := range pages {
		for _, l := range p.Lines {
			samples = append(samples, SizeSample{Size: l.Size, Chars: l.Chars})
		}
	}
	doc.Style.BodySize = EstimateBodySize(samples)

	tree := newTreeBuilder(doc)
	for _, p := range pages {
		for _, h := range s.headings(p, doc.Style.BodySize) {
			tree.add(h, styleProminence(h.Style))
		}
	}
	return doc
}

// isCandidate reports whether a line can be a heading
func (s *PDFSource) isCandidate(l textLine, body float64) bool {
	if l.Bold {
		return true
	}
	return body > 0 && l.Size >= body+s.HeadingSizeDelta
}

// headings returns the heading candidates of one page, with wrapped
// headings merged
func (s *PDFSource) headings(p pageLines, body float64) []*model.Heading {
	var out []*model.Heading
	var prev *textLine
	var cur *model.Heading

	for i := range p.Lines {
		l := p.Lines[i]
		if !s.isCandidate(l, body) {
			prev, cur = nil, nil
			continue
		}

		if cur != nil && s.continues(*prev, l) {
			cur.Text += " " + l.Text
			g := cur.Geometry
			cur.Geometry = model.NewGeometry(
				math.Min(g.X0, l.X0), math.Min(g.Y0, l.Baseline),
				math.Max(g.X1, l.X1), g.Y1,
				p.Width, p.Height,
			)
			prev = &p.Lines[i]
			continue
		}

		cur = &model.Heading{
			Text:     l.Text,
			Page:     p.Index,
			Style:    model.Style{MaxSize: l.Size, Bold: l.Bold},
			Geometry: model.NewGeometry(l.X0, l.Baseline, l.X1, l.top(), p.Width, p.Height),
		}
		out = append(out, cur)
		prev = &p.Lines[i]
	}
	return out
}

// continues reports whether next is the wrapped continuation of prev
func (s *PDFSource) continues(prev, next textLine) bool {
	if prev.Bold != next.Bold || math.Abs(prev.Size-next.Size) > 0.5 {
		return false
	}
	gap := prev.Baseline - next.Baseline
	return gap > 0 && gap <= s.MergeGap*prev.Size
}

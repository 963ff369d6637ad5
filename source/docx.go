package source

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/tsawler/outline/model"
)

// Word renders unstyled text at 11pt and headings at these sizes
const docxDefaultSize = 11.0

var docxStyleSizes = map[int]float64{0: 28, 1: 16, 2: 13, 3: 12, 4: 11, 5: 11, 6: 11}

// DOCXSource reads Word documents. Paragraphs styled Title or HeadingN are
// heading candidates, as are paragraphs whose runs are all bold. Explicit
// run sizes override the style defaults. Hard page breaks advance the page
// index.
type DOCXSource struct{}

// NewDOCXSource creates a DOCX adapter
func NewDOCXSource() *DOCXSource {
	return &DOCXSource{}
}

// docxParagraph is the flattened content of one paragraph
type docxParagraph struct {
	text        string
	size        float64 // largest explicit run size, 0 when none
	allBold     bool
	breakBefore bool
	breakAfter  bool
	samples     []SizeSample
}

// Load parses the document body
func (s *DOCXSource) Load(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("source: parse docx %s: %w", filename, err)
	}

	doc := model.NewDocument()
	tree := newTreeBuilder(doc)
	page := 0
	var samples []SizeSample

	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		p := readParagraph(para)
		samples = append(samples, p.samples...)

		if p.breakBefore {
			page++
		}

		if p.text != "" {
			level, styled := docxStyleLevel(para)
			switch {
			case styled:
				st := model.Style{MaxSize: docxStyleSizes[level], Bold: true}
				if p.size > 0 {
					st.MaxSize = p.size
				}
				h := &model.Heading{Text: p.text, Page: page, Style: st}
				tree.add(h, float64(len(levelSizes)-level))
			case p.allBold:
				st := model.Style{MaxSize: docxDefaultSize, Bold: true}
				if p.size > 0 {
					st.MaxSize = p.size
				}
				h := &model.Heading{Text: p.text, Page: page, Style: st}
				tree.add(h, 0.5)
			}
		}

		if p.breakAfter {
			page++
		}
	}

	doc.Style.BodySize = EstimateBodySize(samples)
	return doc, nil
}

// docxStyleLevel maps the paragraph style to a heading level; Title is 0
func docxStyleLevel(para *docx.Paragraph) (int, bool) {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0, false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 0, true
	}
	if n, ok := strings.CutPrefix(style, "heading"); ok {
		level, err := strconv.Atoi(n)
		if err == nil && level >= 1 && level <= 6 {
			return level, true
		}
	}
	return 0, false
}

// readParagraph collects text, sizes, weight and page breaks of a paragraph
func readParagraph(para *docx.Paragraph) docxParagraph {
	var p docxParagraph
	var b strings.Builder

	paraBold := false
	paraSize := 0.0
	if para.Properties != nil && para.Properties.RunProperties != nil {
		paraBold = para.Properties.RunProperties.Bold != nil
		paraSize = halfPoints(para.Properties.RunProperties.Size)
	}

	p.allBold = true
	visible := 0
	for _, child := range para.Children {
		var run *docx.Run
		switch c := child.(type) {
		case *docx.Run:
			run = c
		case *docx.Hyperlink:
			run = &c.Run
		default:
			continue
		}

		var rb strings.Builder
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				rb.WriteString(t.Text)
			case *docx.Tab:
				rb.WriteByte(' ')
			case *docx.BarterRabbet:
				if t.Type != "page" {
					rb.WriteByte(' ')
					continue
				}
				if visible == 0 && strings.TrimSpace(b.String()+rb.String()) == "" {
					p.breakBefore = true
				} else {
					p.breakAfter = true
				}
			}
		}

		text := rb.String()
		b.WriteString(text)
		chars := len([]rune(strings.TrimSpace(text)))
		if chars == 0 {
			continue
		}
		visible += chars

		bold, size := paraBold, paraSize
		if run.RunProperties != nil {
			bold = bold || run.RunProperties.Bold != nil
			if sz := halfPoints(run.RunProperties.Size); sz > 0 {
				size = sz
			}
		}
		if !bold {
			p.allBold = false
		}
		if size > p.size {
			p.size = size
		}
		sample := size
		if sample <= 0 {
			sample = docxDefaultSize
		}
		p.samples = append(p.samples, SizeSample{Size: sample, Chars: chars})
	}

	p.text = cleanText(b.String())
	if visible == 0 {
		p.allBold = false
	}
	return p
}

// halfPoints converts a w:sz value (half-points) to points
func halfPoints(sz *docx.Size) float64 {
	if sz == nil {
		return 0
	}
	v, err := strconv.ParseFloat(sz.Val, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v / 2
}

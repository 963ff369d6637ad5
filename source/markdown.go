package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/outline/model"
)

// MarkdownSource reads Markdown with goldmark. ATX and Setext headings get
// nominal sizes by level; paragraphs consisting only of strong emphasis
// become bold candidates at body size. Markdown has no pages, so thematic
// breaks (---) advance the page index.
type MarkdownSource struct {
	md goldmark.Markdown
}

// NewMarkdownSource creates a Markdown adapter
func NewMarkdownSource() *MarkdownSource {
	return &MarkdownSource{md: goldmark.New()}
}

// Load parses the Markdown source
func (s *MarkdownSource) Load(r io.Reader, filename string) (*model.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	root := s.md.Parser().Parse(text.NewReader(src))

	doc := model.NewDocument()
	doc.Style.BodySize = nominalBodySize
	tree := newTreeBuilder(doc)
	page := 0

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.ThematicBreak:
			page++
			return ast.WalkSkipChildren, nil

		case *ast.Heading:
			if t := inlineText(node, src); t != "" {
				h := &model.Heading{Text: t, Page: page, Style: levelStyle(node.Level)}
				tree.add(h, float64(len(levelSizes)-node.Level))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			if node.Parent() != nil && node.Parent().Kind() == ast.KindDocument && isStrongOnly(node) {
				if t := inlineText(node, src); t != "" {
					h := &model.Heading{Text: t, Page: page, Style: model.Style{MaxSize: nominalBodySize, Bold: true}}
					tree.add(h, 0.5)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("source: walk %s: %w", filename, err)
	}
	return doc, nil
}

// inlineText concatenates the text of the inline children of n
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return cleanText(b.String())
}

// isStrongOnly reports whether a paragraph holds nothing but strong
// emphasis, like "**Overview**"
func isStrongOnly(p *ast.Paragraph) bool {
	strong := false
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Emphasis:
			if t.Level < 2 {
				return false
			}
			strong = true
		default:
			return false
		}
	}
	return strong
}

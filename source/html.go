package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/outline/model"
)

// HTMLSource reads HTML. h1-h6 get nominal sizes by level; paragraphs whose
// text is entirely bold become bold candidates at body size. Elements styled
// with a page break before or after them advance the page index.
type HTMLSource struct{}

// NewHTMLSource creates an HTML adapter
func NewHTMLSource() *HTMLSource {
	return &HTMLSource{}
}

// Load parses the HTML document. The <title> element, when present, is kept
// in Metadata.Custom["title"].
func (s *HTMLSource) Load(r io.Reader, filename string) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("source: parse html %s: %w", filename, err)
	}

	doc := model.NewDocument()
	doc.Style.BodySize = nominalBodySize

	w := newHTMLWalker(doc)
	w.walkDocument(root)

	if title := findTitle(root); title != "" {
		doc.Metadata.Custom["title"] = title
	}
	return doc, nil
}

// htmlWalker turns HTML trees into sections. One walker may visit several
// trees (EPUB chapters) that share a document and page counter.
type htmlWalker struct {
	tree  *treeBuilder
	page  int
	dirty bool // content seen since the last page break
}

func newHTMLWalker(doc *model.Document) *htmlWalker {
	return &htmlWalker{tree: newTreeBuilder(doc)}
}

// walkDocument walks the <body> of root, or all of root when there is none
func (w *htmlWalker) walkDocument(root *html.Node) {
	if body := findElement(root, "body"); body != nil {
		w.walk(body)
		return
	}
	w.walk(root)
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			w.dirty = true
		}
		return
	case html.ElementNode, html.DocumentNode:
	default:
		return
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "nav", "template", "noscript":
			return
		}

		before, after := pageBreaks(n)
		if before && w.dirty {
			w.page++
			w.dirty = false
		}
		if after {
			defer func() {
				w.page++
				w.dirty = false
			}()
		}

		if level := headingLevel(n.Data); level > 0 {
			if t := cleanText(textContent(n)); t != "" {
				h := &model.Heading{Text: t, Page: w.page, Style: levelStyle(level)}
				w.tree.add(h, float64(len(levelSizes)-level))
				w.dirty = true
			}
			return
		}

		if n.Data == "p" {
			all := cleanText(textContent(n))
			if all != "" && squash(cleanText(boldText(n))) == squash(all) {
				h := &model.Heading{Text: all, Page: w.page, Style: model.Style{MaxSize: nominalBodySize, Bold: true}}
				w.tree.add(h, 0.5)
			}
			if all != "" {
				w.dirty = true
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// styleValue returns the lowercased style attribute with spaces removed
func styleValue(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "style" {
			return strings.ToLower(strings.Join(strings.Fields(a.Val), ""))
		}
	}
	return ""
}

// pageBreaks reports CSS page breaks before and after an element
func pageBreaks(n *html.Node) (before, after bool) {
	st := styleValue(n)
	if st == "" {
		return false, false
	}
	before = strings.Contains(st, "page-break-before:always") || strings.Contains(st, "break-before:page")
	after = strings.Contains(st, "page-break-after:always") || strings.Contains(st, "break-after:page")
	return before, after
}

// squash removes all whitespace
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// isBoldElement reports whether an element renders its content bold
func isBoldElement(n *html.Node) bool {
	switch n.Data {
	case "b", "strong":
		return true
	}
	st := styleValue(n)
	return strings.Contains(st, "font-weight:bold") || strings.Contains(st, "font-weight:700")
}

// textContent returns the text of n and its descendants
func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return b.String()
}

// boldText returns the text of n that sits inside bold elements
func boldText(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node, bool)
	extract = func(n *html.Node, bold bool) {
		if n.Type == html.TextNode && bold {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && isBoldElement(n) {
			bold = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c, bold)
		}
	}
	extract(n, false)
	return b.String()
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return cleanText(textContent(t))
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

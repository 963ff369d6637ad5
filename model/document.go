package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidDocument is returned when a document violates the structural
// preconditions of the outline engine.
var ErrInvalidDocument = errors.New("outline: invalid document")

// Style holds the typographic signals of a heading span
type Style struct {
	MaxSize float64 `json:"max_size"` // Largest font size in the span
	Bold    bool    `json:"bold"`
}

// Heading is a text span that may function as a section heading
type Heading struct {
	// Text is the span text. Callers should trim it before use.
	Text string `json:"text"`

	// Page is the 0-based page index where the heading appears
	Page int `json:"page"`

	// Style carries font size and weight
	Style Style `json:"style"`

	// Geometry is optional; nil means no positional signal
	Geometry *Geometry `json:"geometry,omitempty"`

	// Level is an optional annotation written by HeadingClassifier.Annotate.
	// The engine reads headings but never writes this field.
	Level Level `json:"-"`
}

// TrimmedText returns the heading text without surrounding whitespace.
// It is safe to call on a nil heading.
func (h *Heading) TrimmedText() string {
	if h == nil {
		return ""
	}
	return strings.TrimSpace(h.Text)
}

// Top returns the top edge of the heading, or 0 when there is no geometry.
func (h *Heading) Top() float64 {
	if h == nil || h.Geometry == nil {
		return 0
	}
	return h.Geometry.Top()
}

// Section is a node of the document tree. It owns at most one heading and an
// ordered list of child sections.
type Section struct {
	Heading  *Heading  `json:"heading,omitempty"`
	Children []*Section `json:"children,omitempty"`
}

// AddChild appends a child section and returns it
func (s *Section) AddChild(child *Section) *Section {
	s.Children = append(s.Children, child)
	return child
}

// StyleContext describes the typography of ordinary body text in a document
type StyleContext struct {
	// BodySize is the representative font size of paragraph text.
	// Zero or negative means unknown.
	BodySize float64 `json:"body_size"`
}

// Metadata contains document-level information supplied by the parser
type Metadata struct {
	Filename string            `json:"filename,omitempty"`
	Format   string            `json:"format,omitempty"`
	Custom   map[string]string `json:"custom,omitempty"`
}

// Document is the parsed representation handed to the outline engine
type Document struct {
	Sections []*Section   `json:"sections"`
	Style    StyleContext `json:"style_context"`
	Metadata Metadata     `json:"metadata"`
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Sections: make([]*Section, 0),
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
	}
}

// AddSection appends a top-level section and returns it
func (d *Document) AddSection(s *Section) *Section {
	d.Sections = append(d.Sections, s)
	return s
}

// Walk visits every section in document pre-order: a section before its
// children, siblings in order. Traversal stops early when fn returns false.
// An explicit stack is used so deep trees cannot exhaust the goroutine stack.
// Nil sections are skipped.
func (d *Document) Walk(fn func(s *Section) bool) {
	if d == nil {
		return
	}

	stack := make([]*Section, 0, len(d.Sections))
	for i := len(d.Sections) - 1; i >= 0; i-- {
		stack = append(stack, d.Sections[i])
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s == nil {
			continue
		}
		if !fn(s) {
			return
		}
		for i := len(s.Children) - 1; i >= 0; i-- {
			stack = append(stack, s.Children[i])
		}
	}
}

// Headings returns every heading in document pre-order
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	d.Walk(func(s *Section) bool {
		if s.Heading != nil {
			headings = append(headings, s.Heading)
		}
		return true
	})
	return headings
}

// HeadingCount returns the number of sections carrying a heading
func (d *Document) HeadingCount() int {
	count := 0
	d.Walk(func(s *Section) bool {
		if s.Heading != nil {
			count++
		}
		return true
	})
	return count
}

// PageCount returns one more than the highest page index referenced by a
// heading, or 0 for a document without headings.
func (d *Document) PageCount() int {
	pages := 0
	d.Walk(func(s *Section) bool {
		if s.Heading != nil && s.Heading.Page+1 > pages {
			pages = s.Heading.Page + 1
		}
		return true
	})
	return pages
}

// Validate checks the structural preconditions of the engine: the section
// graph must be a tree (no section reachable twice), page indexes must be
// non-negative, and sizes and coordinates must be finite. Missing optional
// signals are not errors.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if math.IsNaN(d.Style.BodySize) || math.IsInf(d.Style.BodySize, 0) {
		return fmt.Errorf("%w: body size is not finite", ErrInvalidDocument)
	}

	seen := make(map[*Section]bool)
	var err error
	d.Walk(func(s *Section) bool {
		if seen[s] {
			err = fmt.Errorf("%w: section reachable more than once", ErrInvalidDocument)
			return false
		}
		seen[s] = true

		h := s.Heading
		if h == nil {
			return true
		}
		switch {
		case h.Page < 0:
			err = fmt.Errorf("%w: heading %q has negative page %d", ErrInvalidDocument, h.TrimmedText(), h.Page)
		case math.IsNaN(h.Style.MaxSize) || math.IsInf(h.Style.MaxSize, 0) || h.Style.MaxSize < 0:
			err = fmt.Errorf("%w: heading %q has invalid font size", ErrInvalidDocument, h.TrimmedText())
		case h.Geometry != nil && !h.Geometry.finite():
			err = fmt.Errorf("%w: heading %q has non-finite geometry", ErrInvalidDocument, h.TrimmedText())
		}
		return err == nil
	})
	return err
}

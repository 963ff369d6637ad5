package layout

import (
	"testing"

	"github.com/tsawler/outline/model"
)

// newTitleDoc builds a flat document from heading spans
func newTitleDoc(headings ...*model.Heading) *model.Document {
	doc := model.NewDocument()
	doc.Style.BodySize = 10
	for _, h := range headings {
		doc.AddSection(&model.Section{Heading: h})
	}
	return doc
}

// onPage returns h moved to page
func onPage(h *model.Heading, page int) *model.Heading {
	h.Page = page
	return h
}

func scenarioDoc() *model.Document {
	return newTitleDoc(
		onPage(makeHeading("ABSTRACT", 16, true), 0),
		onPage(makeHeading("1. Introduction", 14, false), 0),
		onPage(makeHeading("1.1 Background", 12, false), 1),
		onPage(makeHeading("2. Methods", 14, false), 1),
	)
}

func TestTitleStrategyString(t *testing.T) {
	tests := []struct {
		strategy TitleStrategy
		expected string
		heading  bool
	}{
		{TitleNone, "none", false},
		{TitleEarlyPage, "early-page", true},
		{TitleLargestFont, "largest-font", true},
		{TitleCenteredProminent, "centered-prominent", true},
		{TitleFirstSignificant, "first-significant", true},
		{TitleFilename, "filename", false},
		{TitleDefault, "default", false},
	}

	for _, tt := range tests {
		if got := tt.strategy.String(); got != tt.expected {
			t.Errorf("TitleStrategy(%d).String() = %q, want %q", tt.strategy, got, tt.expected)
		}
		if got := tt.strategy.FromHeading(); got != tt.heading {
			t.Errorf("%v.FromHeading() = %v, want %v", tt.strategy, got, tt.heading)
		}
	}
}

// ============================================================================
// Waterfall Tests
// ============================================================================

func TestSelectProminentCapsTitle(t *testing.T) {
	sel := NewTitleSelector().Select(scenarioDoc())

	if sel.Text != "ABSTRACT" {
		t.Errorf("title = %q, want ABSTRACT", sel.Text)
	}
	if sel.Strategy != TitleEarlyPage {
		t.Errorf("strategy = %v, want early-page", sel.Strategy)
	}
	if sel.Heading == nil || sel.Heading.Page != 0 {
		t.Errorf("unexpected source heading: %+v", sel.Heading)
	}
}

func TestSelectIndicatorOverrideDisabled(t *testing.T) {
	config := DefaultConfig()
	config.ProminentCapsOverridesIndicators = false

	sel := NewTitleSelectorWithConfig(config).Select(scenarioDoc())

	if sel.Text != "1. Introduction" {
		t.Errorf("title = %q, want %q", sel.Text, "1. Introduction")
	}
	if sel.Strategy != TitleFirstSignificant {
		t.Errorf("strategy = %v, want first-significant", sel.Strategy)
	}
}

func TestSelectEarlyPageUsesPosition(t *testing.T) {
	lower := onPage(makeHeading("Section Heading Words Here", 14, false), 0)
	lower.Geometry = model.NewGeometry(72, 286, 400, 300, 612, 792)
	upper := onPage(makeHeading("The Real Document Title", 14, false), 0)
	upper.Geometry = model.NewGeometry(72, 700, 400, 720, 612, 792)

	sel := NewTitleSelector().Select(newTitleDoc(lower, upper))
	if sel.Text != "The Real Document Title" {
		t.Errorf("title = %q, want the top-most heading", sel.Text)
	}
}

func TestSelectEarlyPageLimit(t *testing.T) {
	config := DefaultConfig()
	config.TitleSearchPages = 1

	doc := newTitleDoc(
		onPage(makeHeading("Later Sheet Title Text", 30, false), 1),
		onPage(makeHeading("First Sheet Words Here", 14, false), 0),
	)

	sel := NewTitleSelectorWithConfig(config).Select(doc)
	if sel.Text != "First Sheet Words Here" || sel.Strategy != TitleEarlyPage {
		t.Errorf("got %q via %v", sel.Text, sel.Strategy)
	}
}

func TestSelectLargestFont(t *testing.T) {
	doc := newTitleDoc(
		onPage(makeHeading("Small Heading Text", 14, false), 5),
		onPage(makeHeading("The Big Title Here", 24, false), 5),
		onPage(makeHeading("Another Big One Here", 24, false), 6),
		onPage(makeHeading("Page 7 of 9 in large print", 40, false), 7),
	)

	sel := NewTitleSelector().Select(doc)
	if sel.Text != "The Big Title Here" {
		t.Errorf("title = %q, want the first of the largest", sel.Text)
	}
	if sel.Strategy != TitleLargestFont {
		t.Errorf("strategy = %v, want largest-font", sel.Strategy)
	}
}

func TestSelectCenteredProminent(t *testing.T) {
	left := onPage(makeHeading("Left Aligned Words", 0, true), 5)
	left.Geometry = model.NewGeometry(50, 700, 200, 714, 612, 792)
	centered := onPage(makeHeading("Annual Review Summary", 0, true), 5)
	centered.Geometry = model.NewGeometry(206, 700, 406, 714, 612, 792)

	sel := NewTitleSelector().Select(newTitleDoc(left, centered))
	if sel.Text != "Annual Review Summary" {
		t.Errorf("title = %q, want the centered heading", sel.Text)
	}
	if sel.Strategy != TitleCenteredProminent {
		t.Errorf("strategy = %v, want centered-prominent", sel.Strategy)
	}
}

func TestSelectFirstSignificant(t *testing.T) {
	doc := newTitleDoc(
		onPage(makeHeading("Draft v2", 14, false), 0),
		onPage(makeHeading("2024", 14, false), 0),
		onPage(makeHeading("Q3 numbers", 14, false), 0),
	)

	sel := NewTitleSelector().Select(doc)
	if sel.Text != "Q3 numbers" || sel.Strategy != TitleFirstSignificant {
		t.Errorf("got %q via %v", sel.Text, sel.Strategy)
	}
}

func TestSelectFilenameFallback(t *testing.T) {
	doc := newTitleDoc(onPage(makeHeading("12", 14, false), 0))
	doc.Metadata.Filename = "annual_report-2024.pdf"

	sel := NewTitleSelector().Select(doc)
	if sel.Text != "annual report 2024" {
		t.Errorf("title = %q, want %q", sel.Text, "annual report 2024")
	}
	if sel.Strategy != TitleFilename || sel.Heading != nil {
		t.Errorf("unexpected selection %+v", sel)
	}
}

func TestSelectDefault(t *testing.T) {
	for name, doc := range map[string]*model.Document{
		"empty": model.NewDocument(),
		"nil":   nil,
		"blank": newTitleDoc(makeHeading("   ", 20, true)),
	} {
		t.Run(name, func(t *testing.T) {
			sel := NewTitleSelector().Select(doc)
			if sel.Text != model.UntitledDocument || sel.Strategy != TitleDefault {
				t.Errorf("got %q via %v", sel.Text, sel.Strategy)
			}
		})
	}
}

// ============================================================================
// Predicate Tests
// ============================================================================

func TestIsLikelyTitle(t *testing.T) {
	tests := []struct {
		name     string
		heading  *model.Heading
		expected bool
	}{
		{"prominent caps with indicator", makeHeading("ABSTRACT", 16, true), true},
		{"caps is prominent on its own", makeHeading("ABSTRACT", 10, false), true},
		{"indicator phrase", makeHeading("Page 3 of 10", 16, true), false},
		{"mixed-case indicator", makeHeading("Author Information", 16, true), false},
		{"too short", makeHeading("Ab", 16, true), false},
		{"title case shape", makeHeading("Methods", 10, false), true},
		{"title case with colon", makeHeading("Introduction: the problem", 10, false), true},
		{"word count in range", makeHeading("Results of the 2024 survey", 10, false), true},
		{"too few words", makeHeading("x y", 10, false), false},
		{
			"too many words",
			makeHeading("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen", 10, false),
			false,
		},
		{"nil", nil, false},
	}

	selector := NewTitleSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.IsLikelyTitle(tt.heading); got != tt.expected {
				t.Errorf("IsLikelyTitle = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsObviouslyNotTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Copyright 2024 Example Corp", true},
		{"Table of Contents", true},
		{"12345", true},
		{"--- * ---", true},
		{"ab", true},
		{"a b c d e f g h i j k l m n o p q r s t u v", true},
		{"Quarterly Results", false},
		{"  Q3 numbers  ", false},
	}

	selector := NewTitleSelector()
	for _, tt := range tests {
		if got := selector.IsObviouslyNotTitle(tt.input); got != tt.expected {
			t.Errorf("IsObviouslyNotTitle(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

package layout

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// TitleStrategy identifies which step of the title waterfall produced a title
type TitleStrategy int

const (
	TitleNone              TitleStrategy = iota // No selection made
	TitleEarlyPage                              // First likely title on the first pages
	TitleLargestFont                            // Largest likely title in the document
	TitleCenteredProminent                      // Centered, prominent and likely
	TitleFirstSignificant                       // First text that is not obviously something else
	TitleFilename                               // Derived from the source filename
	TitleDefault                                // UntitledDocument
)

// String returns a string representation of the strategy
func (s TitleStrategy) String() string {
	switch s {
	case TitleEarlyPage:
		return "early-page"
	case TitleLargestFont:
		return "largest-font"
	case TitleCenteredProminent:
		return "centered-prominent"
	case TitleFirstSignificant:
		return "first-significant"
	case TitleFilename:
		return "filename"
	case TitleDefault:
		return "default"
	default:
		return "none"
	}
}

// FromHeading reports whether the title was taken from a heading span
func (s TitleStrategy) FromHeading() bool {
	return s >= TitleEarlyPage && s <= TitleFirstSignificant
}

// TitleSelection is the result of title selection
type TitleSelection struct {
	Text     string
	Strategy TitleStrategy

	// Heading is the span the title came from; nil for the filename and
	// default strategies
	Heading *model.Heading
}

// TitleSelector picks a single document title from the heading spans
type TitleSelector struct {
	config Config
}

// NewTitleSelector creates a title selector with the default configuration
func NewTitleSelector() *TitleSelector {
	return &TitleSelector{
		config: DefaultConfig(),
	}
}

// NewTitleSelectorWithConfig creates a title selector with custom configuration
func NewTitleSelectorWithConfig(config Config) *TitleSelector {
	return &TitleSelector{
		config: config,
	}
}

// Select runs the title waterfall over every heading span in the document,
// classified or not. The first strategy that yields a title wins. Select
// always returns non-empty text.
func (t *TitleSelector) Select(doc *model.Document) TitleSelection {
	var headings []*model.Heading
	for _, h := range doc.Headings() {
		if h.TrimmedText() != "" {
			headings = append(headings, h)
		}
	}

	strategies := []struct {
		strategy TitleStrategy
		find     func([]*model.Heading) *model.Heading
	}{
		{TitleEarlyPage, t.earlyPage},
		{TitleLargestFont, t.largestFont},
		{TitleCenteredProminent, t.centeredProminent},
		{TitleFirstSignificant, t.firstSignificant},
	}

	for _, s := range strategies {
		if h := s.find(headings); h != nil {
			return TitleSelection{
				Text:     h.TrimmedText(),
				Strategy: s.strategy,
				Heading:  h,
			}
		}
	}

	if doc != nil && strings.TrimSpace(doc.Metadata.Filename) != "" {
		if name := model.HumanizeFilename(doc.Metadata.Filename); name != model.UntitledDocument {
			return TitleSelection{Text: name, Strategy: TitleFilename}
		}
	}

	return TitleSelection{Text: model.UntitledDocument, Strategy: TitleDefault}
}

// earlyPage returns the first likely title on the first pages, top of the
// page first
func (t *TitleSelector) earlyPage(headings []*model.Heading) *model.Heading {
	var early []*model.Heading
	for _, h := range headings {
		if h.Page < t.config.TitleSearchPages {
			early = append(early, h)
		}
	}

	for _, h := range SortForHierarchy(early) {
		if t.IsLikelyTitle(h) {
			return h
		}
	}
	return nil
}

// largestFont returns the likely title with the strictly largest font size.
// Ties keep the earliest heading; headings without a size never qualify.
func (t *TitleSelector) largestFont(headings []*model.Heading) *model.Heading {
	var best *model.Heading
	largest := 0.0
	for _, h := range headings {
		if h.Style.MaxSize > largest && t.IsLikelyTitle(h) {
			best = h
			largest = h.Style.MaxSize
		}
	}
	return best
}

// centeredProminent returns the first centered, prominent, likely title
func (t *TitleSelector) centeredProminent(headings []*model.Heading) *model.Heading {
	for _, h := range headings {
		if !h.Geometry.IsCentered(t.config.TitleCenterTolerance) {
			continue
		}
		if t.isProminent(h) && t.IsLikelyTitle(h) {
			return h
		}
	}
	return nil
}

// firstSignificant returns the first heading that is long enough and not
// obviously something other than a title
func (t *TitleSelector) firstSignificant(headings []*model.Heading) *model.Heading {
	for _, h := range headings {
		text := h.TrimmedText()
		if runeLen(text) >= t.config.FallbackMinLength && !t.IsObviouslyNotTitle(text) {
			return h
		}
	}
	return nil
}

// IsLikelyTitle reports whether a heading looks like a document title: long
// enough, free of non-title indicator phrases, and either shaped like a
// title or of title-like word count.
//
// A prominent heading with the all-caps title shape is accepted even when
// it contains an indicator phrase, if ProminentCapsOverridesIndicators is
// set.
func (t *TitleSelector) IsLikelyTitle(h *model.Heading) bool {
	text := h.TrimmedText()
	if runeLen(text) < t.config.MinTitleLength {
		return false
	}

	capsShape := t.config.CapsTitleShape.MatchString(text)

	if containsAny(strings.ToLower(text), t.config.NonTitleIndicators) {
		if !t.config.ProminentCapsOverridesIndicators || !capsShape || !t.isProminent(h) {
			return false
		}
	}

	if capsShape {
		return true
	}
	for _, p := range t.config.TitleShapes {
		if p.MatchString(text) {
			return true
		}
	}

	words := wordCount(text)
	return words >= t.config.TitleMinWords && words <= t.config.TitleMaxWords
}

// IsObviouslyNotTitle reports whether text is clearly not a title: it
// contains a non-title indicator, is too short or too long, is only digits,
// or has no letters at all.
func (t *TitleSelector) IsObviouslyNotTitle(text string) bool {
	text = strings.TrimSpace(text)

	switch {
	case containsAny(strings.ToLower(text), t.config.NonTitleIndicators):
		return true
	case runeLen(text) < t.config.MinTitleLength:
		return true
	case wordCount(text) > t.config.FallbackMaxWords:
		return true
	case isDigits(text):
		return true
	case !hasLetter(text):
		return true
	}
	return false
}

// isProminent reports whether a heading stands out visually: bold, larger
// than ProminentSize, or all-caps
func (t *TitleSelector) isProminent(h *model.Heading) bool {
	if h == nil {
		return false
	}
	if h.Style.Bold || h.Style.MaxSize > t.config.ProminentSize {
		return true
	}
	text := h.TrimmedText()
	return isUpper(text) && runeLen(text) >= t.config.MinAllCapsLength
}

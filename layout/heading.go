package layout

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// Signals records which heading indicators a span exhibited
type Signals struct {
	Bold       bool // Bold style
	AllCaps    bool // Entirely upper-case text
	Pattern    bool // Matches a candidate pattern (numbering, "Chapter 1", ...)
	Structural bool // Contains a structural word such as "introduction"
	Short      bool // Word count at or below MaxHeadingWords
}

// Any reports whether at least one signal is present
func (s Signals) Any() bool {
	return s.Bold || s.AllCaps || s.Pattern || s.Structural || s.Short
}

// Classification is the full result of classifying one span
type Classification struct {
	// Level is the final level, LevelNone when the span is not a heading
	Level model.Level

	// Candidate is false when the span was rejected before level assignment
	Candidate bool

	// BodySize is the body size the span was compared against
	BodySize float64

	// RelativeSize is MaxSize / BodySize
	RelativeSize float64

	// BaseLevel is the level implied by font size alone
	BaseLevel model.Level

	// Signals are the candidacy signals observed
	Signals Signals

	// NumberingLevel is the level implied by a numbering prefix, if any
	NumberingLevel model.Level

	// GeometryLevel is the level implied by page position, if any
	GeometryLevel model.Level
}

// HeadingClassifier decides whether a span is a heading and at which level
type HeadingClassifier struct {
	config Config
}

// NewHeadingClassifier creates a classifier with the default configuration
func NewHeadingClassifier() *HeadingClassifier {
	return &HeadingClassifier{
		config: DefaultConfig(),
	}
}

// NewHeadingClassifierWithConfig creates a classifier with custom configuration
func NewHeadingClassifierWithConfig(config Config) *HeadingClassifier {
	return &HeadingClassifier{
		config: config,
	}
}

// Classify returns the level of a heading span, or model.LevelNone if the
// span is not a heading.
func (c *HeadingClassifier) Classify(h *model.Heading, style model.StyleContext) model.Level {
	return c.Analyze(h, style).Level
}

// Analyze classifies a heading span and reports every signal that
// contributed to the decision.
//
// The level is derived in a fixed order where later steps override earlier
// ones: base level from relative font size, all-caps escalation, bold
// escalation, numbering override, then geometry override.
func (c *HeadingClassifier) Analyze(h *model.Heading, style model.StyleContext) Classification {
	result := Classification{BodySize: c.bodySize(style)}
	if h == nil {
		return result
	}

	text := h.TrimmedText()
	if runeLen(text) < c.config.MinTextLength {
		return result
	}

	size := h.Style.MaxSize
	result.RelativeSize = size / result.BodySize

	// Candidacy gate: must be noticeably larger than body text
	if size < result.BodySize+c.config.CandidacyMargin {
		return result
	}

	result.Signals = c.detectSignals(text, h.Style)
	if !result.Signals.Any() {
		return result
	}
	result.Candidate = true

	level := c.baseLevel(size, result.RelativeSize)
	result.BaseLevel = level

	if result.Signals.AllCaps {
		level = level.Escalate()
	}
	if result.Signals.Bold {
		level = level.Escalate()
	}

	if numbered := c.numberingLevel(text); numbered != model.LevelNone {
		result.NumberingLevel = numbered
		level = numbered
	}

	if positional := c.geometryLevel(h.Geometry); positional != model.LevelNone {
		result.GeometryLevel = positional
		level = positional
	}

	result.Level = level
	return result
}

// Annotate classifies every heading in the document and stores the result
// in Heading.Level. It returns the number of headings classified as H1-H3.
func (c *HeadingClassifier) Annotate(doc *model.Document) int {
	count := 0
	doc.Walk(func(s *model.Section) bool {
		if s.Heading == nil {
			return true
		}
		s.Heading.Level = c.Classify(s.Heading, doc.Style)
		if s.Heading.Level != model.LevelNone {
			count++
		}
		return true
	})
	return count
}

// bodySize returns the body size to compare against, substituting the
// configured default when the document did not supply one
func (c *HeadingClassifier) bodySize(style model.StyleContext) float64 {
	if style.BodySize > 0 {
		return style.BodySize
	}
	return c.config.DefaultBodySize
}

// detectSignals evaluates the candidacy signals for trimmed text
func (c *HeadingClassifier) detectSignals(text string, style model.Style) Signals {
	lowered := strings.ToLower(text)

	signals := Signals{
		Bold:       style.Bold,
		AllCaps:    isUpper(text) && runeLen(text) >= c.config.MinAllCapsLength,
		Structural: containsAny(lowered, c.config.StructuralWords),
		Short:      wordCount(text) <= c.config.MaxHeadingWords,
	}

	for _, p := range c.config.CandidatePatterns {
		if p.MatchString(text) {
			signals.Pattern = true
			break
		}
	}

	return signals
}

// baseLevel maps a font size to a level. Candidates below every threshold
// still get the lowest level rather than being rejected.
func (c *HeadingClassifier) baseLevel(size, relative float64) model.Level {
	switch {
	case relative >= c.config.H1Ratio || atLeast(size, c.config.H1MinSize):
		return model.LevelH1
	case relative >= c.config.H2Ratio || atLeast(size, c.config.H2MinSize):
		return model.LevelH2
	case relative >= c.config.H3Ratio:
		return model.LevelH3
	default:
		return model.LevelH3
	}
}

// numberingLevel returns the level implied by the first matching numbering
// rule, or LevelNone
func (c *HeadingClassifier) numberingLevel(text string) model.Level {
	for _, rule := range c.config.NumberingRules {
		if rule.Pattern.MatchString(text) {
			return rule.Level
		}
	}
	return model.LevelNone
}

// geometryLevel returns the level implied by page position: centered at
// the top of the page is H1, centered or top alone is H2. Headings without
// usable geometry return LevelNone.
func (c *HeadingClassifier) geometryLevel(g *model.Geometry) model.Level {
	if !g.Usable() {
		return model.LevelNone
	}

	centered := g.IsCentered(c.config.CenterTolerance)
	top := g.IsInTopBand(c.config.TopBandFraction)

	switch {
	case centered && top:
		return model.LevelH1
	case centered || top:
		return model.LevelH2
	default:
		return model.LevelNone
	}
}

// atLeast reports whether size reaches an enabled absolute floor
func atLeast(size, floor float64) bool {
	return floor > 0 && size >= floor
}

package layout

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/outline/model"
)

// ErrInvalidConfig is returned when a heuristic profile is inconsistent
var ErrInvalidConfig = errors.New("layout: invalid config")

// Pattern is a compiled regular expression that reads from and writes to
// YAML as its source string.
type Pattern struct {
	*regexp.Regexp
}

// MustPattern compiles expr and panics on error. Intended for defaults.
func MustPattern(expr string) Pattern {
	return Pattern{regexp.MustCompile(expr)}
}

// MatchString reports whether the pattern matches s. A zero Pattern never
// matches.
func (p Pattern) MatchString(s string) bool {
	if p.Regexp == nil {
		return false
	}
	return p.Regexp.MatchString(s)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	var expr string
	if err := value.Decode(&expr); err != nil {
		return err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	p.Regexp = re
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (p Pattern) MarshalYAML() (interface{}, error) {
	if p.Regexp == nil {
		return "", nil
	}
	return p.Regexp.String(), nil
}

// NumberingRule maps a numbering prefix pattern to the level it implies
type NumberingRule struct {
	Pattern Pattern     `yaml:"pattern"`
	Level   model.Level `yaml:"level"`
}

// Config holds the thresholds, vocabularies and patterns used by the
// heading classifier and the title selector. A Config is treated as an
// immutable value: detectors copy it at construction.
type Config struct {
	// DefaultBodySize substitutes for a missing body size estimate.
	// Default: 12
	DefaultBodySize float64 `yaml:"default_body_size"`

	// CandidacyMargin is how much larger than body text (in points) a span
	// must be to be considered at all. Default: 1
	CandidacyMargin float64 `yaml:"candidacy_margin"`

	// MinTextLength is the minimum heading length in runes. Default: 3
	MinTextLength int `yaml:"min_text_length"`

	// H1Ratio, H2Ratio and H3Ratio are the minimum size ratios relative to
	// body text for each base level. Default: 1.5, 1.3, 1.1
	H1Ratio float64 `yaml:"h1_ratio"`
	H2Ratio float64 `yaml:"h2_ratio"`
	H3Ratio float64 `yaml:"h3_ratio"`

	// H1MinSize and H2MinSize are optional absolute size floors that also
	// assign a base level. Zero disables them. Default: 0
	H1MinSize float64 `yaml:"h1_min_size"`
	H2MinSize float64 `yaml:"h2_min_size"`

	// MinAllCapsLength is the minimum rune count for all-caps text to count
	// as a heading signal. Default: 3
	MinAllCapsLength int `yaml:"min_all_caps_length"`

	// MaxHeadingWords is the word count at or below which text is short
	// enough to be a candidate. Default: 10
	MaxHeadingWords int `yaml:"max_heading_words"`

	// CandidatePatterns make a span a heading candidate when they match
	CandidatePatterns []Pattern `yaml:"candidate_patterns"`

	// StructuralWords make a span a heading candidate when contained in it
	// (case-insensitive)
	StructuralWords []string `yaml:"structural_words"`

	// NumberingRules override the level; the first matching rule wins
	NumberingRules []NumberingRule `yaml:"numbering_rules"`

	// CenterTolerance is the fraction of page width within which a heading
	// counts as centered. Default: 0.10
	CenterTolerance float64 `yaml:"center_tolerance"`

	// TopBandFraction is the fraction of page height counted as the top of
	// the page. Default: 0.20
	TopBandFraction float64 `yaml:"top_band_fraction"`

	// TitleSearchPages limits the early-page title scan. Default: 3
	TitleSearchPages int `yaml:"title_search_pages"`

	// TitleCenterTolerance is the centering tolerance for the
	// centered-and-prominent title scan. Default: 0.15
	TitleCenterTolerance float64 `yaml:"title_center_tolerance"`

	// ProminentSize is the font size above which text is prominent.
	// Default: 12
	ProminentSize float64 `yaml:"prominent_size"`

	// MinTitleLength is the minimum title length in runes. Default: 3
	MinTitleLength int `yaml:"min_title_length"`

	// TitleMinWords and TitleMaxWords bound the word count of a title that
	// matches no title shape. Default: 3, 15
	TitleMinWords int `yaml:"title_min_words"`
	TitleMaxWords int `yaml:"title_max_words"`

	// FallbackMinLength and FallbackMaxWords bound the first-significant-text
	// fallback. Default: 4, 20
	FallbackMinLength int `yaml:"fallback_min_length"`
	FallbackMaxWords  int `yaml:"fallback_max_words"`

	// NonTitleIndicators disqualify a title when contained in it
	// (case-insensitive)
	NonTitleIndicators []string `yaml:"non_title_indicators"`

	// CapsTitleShape is the shape of an all-caps title line
	CapsTitleShape Pattern `yaml:"caps_title_shape"`

	// TitleShapes are additional title shapes (Title Case and friends)
	TitleShapes []Pattern `yaml:"title_shapes"`

	// ProminentCapsOverridesIndicators accepts a prominent heading with the
	// all-caps title shape even when it contains a non-title indicator.
	// Default: true
	ProminentCapsOverridesIndicators bool `yaml:"prominent_caps_overrides_indicators"`
}

// DefaultConfig returns the standard heuristic profile
func DefaultConfig() Config {
	return Config{
		DefaultBodySize:  12,
		CandidacyMargin:  1,
		MinTextLength:    3,
		H1Ratio:          1.5,
		H2Ratio:          1.3,
		H3Ratio:          1.1,
		MinAllCapsLength: 3,
		MaxHeadingWords:  10,
		CandidatePatterns: []Pattern{
			MustPattern(`(?i)^\d+\.?\s+`),     // 1. or 1
			MustPattern(`(?i)^[A-Z]\.?\s+`),   // A. or A
			MustPattern(`(?i)^[IVX]+\.?\s+`),  // I. II. III.
			MustPattern(`(?i)^chapter\s+\d+`), // Chapter 1
			MustPattern(`(?i)^section\s+\d+`), // Section 1
		},
		StructuralWords: []string{
			"introduction", "conclusion", "summary", "overview", "background",
			"methodology", "results", "discussion", "references", "appendix",
			"chapter", "section", "subsection", "part", "unit",
		},
		NumberingRules: []NumberingRule{
			{MustPattern(`^\d+\.?\s+[A-Z]`), model.LevelH1},
			{MustPattern(`^\d+\.\d+\.?\s+`), model.LevelH2},
			{MustPattern(`^\d+\.\d+\.\d+\.?\s+`), model.LevelH3},
			{MustPattern(`^[A-Z]\.?\s+`), model.LevelH2},
		},
		CenterTolerance:      0.10,
		TopBandFraction:      0.20,
		TitleSearchPages:     3,
		TitleCenterTolerance: 0.15,
		ProminentSize:        12,
		MinTitleLength:       3,
		TitleMinWords:        3,
		TitleMaxWords:        15,
		FallbackMinLength:    4,
		FallbackMaxWords:     20,
		NonTitleIndicators: []string{
			"page", "copyright", "all rights reserved", "confidential",
			"draft", "version", "date", "author", "abstract", "table of contents",
		},
		CapsTitleShape: MustPattern(`^[A-Z][A-Z\s]{3,}$`),
		TitleShapes: []Pattern{
			MustPattern(`^[A-Z][a-z\s]{3,}$`),
			MustPattern(`^[A-Z][a-z\s]{3,}[:.]`),
		},
		ProminentCapsOverridesIndicators: true,
	}
}

// ParseConfig reads a YAML heuristic profile. Keys that are absent keep
// their default values; list keys replace the default list.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML heuristic profile from a file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read heuristic profile: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that thresholds are in range and ordered
func (c Config) Validate() error {
	switch {
	case c.DefaultBodySize <= 0:
		return fmt.Errorf("%w: default_body_size must be positive", ErrInvalidConfig)
	case c.H3Ratio <= 0 || c.H2Ratio < c.H3Ratio || c.H1Ratio < c.H2Ratio:
		return fmt.Errorf("%w: level ratios must satisfy 0 < h3 <= h2 <= h1", ErrInvalidConfig)
	case c.CenterTolerance <= 0 || c.CenterTolerance > 1:
		return fmt.Errorf("%w: center_tolerance must be in (0, 1]", ErrInvalidConfig)
	case c.TitleCenterTolerance <= 0 || c.TitleCenterTolerance > 1:
		return fmt.Errorf("%w: title_center_tolerance must be in (0, 1]", ErrInvalidConfig)
	case c.TopBandFraction <= 0 || c.TopBandFraction > 1:
		return fmt.Errorf("%w: top_band_fraction must be in (0, 1]", ErrInvalidConfig)
	case c.TitleMinWords > c.TitleMaxWords:
		return fmt.Errorf("%w: title_min_words exceeds title_max_words", ErrInvalidConfig)
	case c.TitleSearchPages < 0:
		return fmt.Errorf("%w: title_search_pages must not be negative", ErrInvalidConfig)
	}
	for i, rule := range c.NumberingRules {
		if rule.Pattern.Regexp == nil || !rule.Level.Valid() {
			return fmt.Errorf("%w: numbering rule %d needs a pattern and a level", ErrInvalidConfig, i)
		}
	}
	return nil
}

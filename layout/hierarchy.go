package layout

import (
	"sort"

	"github.com/tsawler/outline/model"
)

// hierarchyState tracks whether an H1 and an H2 are currently open while
// scanning headings in document order
type hierarchyState struct {
	openH1 bool
	openH2 bool
}

// step consumes one level and returns the level to emit. An H2 with no open
// H1 is promoted to H1. An H3 with no open H2 is promoted to H2, or to H1
// when no H1 is open either. The state follows the emitted level, so an
// emitted H1 always closes the open H2. The scan never looks ahead and never
// revisits earlier entries.
func (s *hierarchyState) step(level model.Level) model.Level {
	emit := level
	switch level {
	case model.LevelH2:
		if !s.openH1 {
			emit = model.LevelH1
		}
	case model.LevelH3:
		if !s.openH2 {
			emit = model.LevelH2
			if !s.openH1 {
				emit = model.LevelH1
			}
		}
	}

	switch emit {
	case model.LevelH1:
		s.openH1 = true
		s.openH2 = false
	case model.LevelH2:
		s.openH2 = true
	}
	return emit
}

// ValidateLevels repairs a sequence of levels, already in document order, so
// that no H2 precedes the first H1 and no H3 precedes the first H2. The input
// is not modified. Levels other than H1-H3 pass through unchanged and do not
// affect the state.
func ValidateLevels(levels []model.Level) []model.Level {
	if levels == nil {
		return nil
	}

	var state hierarchyState
	result := make([]model.Level, len(levels))
	for i, level := range levels {
		result[i] = state.step(level)
	}
	return result
}

// ValidateEntries applies the same repair as ValidateLevels to outline
// entries and returns new entries. Text and page are preserved.
func ValidateEntries(entries []model.OutlineEntry) []model.OutlineEntry {
	if entries == nil {
		return nil
	}

	var state hierarchyState
	result := make([]model.OutlineEntry, len(entries))
	for i, e := range entries {
		result[i] = model.OutlineEntry{
			Level: state.step(e.Level),
			Text:  e.Text,
			Page:  e.Page,
		}
	}
	return result
}

// IsValidHierarchy reports whether no H2 precedes the first H1 and no H3
// precedes the first H2
func IsValidHierarchy(levels []model.Level) bool {
	seenH1, seenH2 := false, false
	for _, level := range levels {
		switch level {
		case model.LevelH1:
			seenH1 = true
		case model.LevelH2:
			if !seenH1 {
				return false
			}
			seenH2 = true
		case model.LevelH3:
			if !seenH2 {
				return false
			}
		}
	}
	return true
}

// IsNested reports whether every H2 follows some H1 and every H3 follows an
// H2 that appears after the most recent H1. Sequences produced by
// ValidateLevels are nested, and ValidateLevels leaves nested sequences
// unchanged.
func IsNested(levels []model.Level) bool {
	var state hierarchyState
	for _, level := range levels {
		if state.step(level) != level {
			return false
		}
	}
	return true
}

// SortForHierarchy orders headings by page, then from the top of the page
// down. Headings without geometry sort as if positioned at 0. The sort is
// stable and the input slice is not modified.
func SortForHierarchy(headings []*model.Heading) []*model.Heading {
	sorted := make([]*model.Heading, len(headings))
	copy(sorted, headings)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Top() > sorted[j].Top()
	})
	return sorted
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// UntitledDocument is the title used when no better title can be derived
const UntitledDocument = "Untitled Document"

// ErrInvalidOutline is returned when an outline violates the output contract
var ErrInvalidOutline = errors.New("outline: invalid outline")

// OutlineEntry is a finalized heading in the output outline
type OutlineEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"` // 1-based
}

// Outline is the result object of the engine
type Outline struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

// MarshalJSON encodes the outline, emitting an empty list rather than null
// when there are no entries.
func (o Outline) MarshalJSON() ([]byte, error) {
	type wire Outline
	w := wire(o)
	if w.Outline == nil {
		w.Outline = []OutlineEntry{}
	}
	return json.Marshal(w)
}

// Validate checks the output contract: every entry has a level in
// {H1, H2, H3}, non-empty text and a page of at least 1; pages never
// decrease; no H2 precedes the first H1 and no H3 precedes the first H2.
func (o *Outline) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil outline", ErrInvalidOutline)
	}

	prevPage := 0
	seenH1, seenH2 := false, false
	for i, e := range o.Outline {
		if !e.Level.Valid() {
			return fmt.Errorf("%w: entry %d has invalid level %d", ErrInvalidOutline, i, int(e.Level))
		}
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("%w: entry %d has empty text", ErrInvalidOutline, i)
		}
		if e.Page < 1 {
			return fmt.Errorf("%w: entry %d has page %d", ErrInvalidOutline, i, e.Page)
		}
		if e.Page < prevPage {
			return fmt.Errorf("%w: entry %d page %d precedes page %d", ErrInvalidOutline, i, e.Page, prevPage)
		}
		prevPage = e.Page

		switch e.Level {
		case LevelH1:
			seenH1 = true
		case LevelH2:
			if !seenH1 {
				return fmt.Errorf("%w: entry %d is H2 before any H1", ErrInvalidOutline, i)
			}
			seenH2 = true
		case LevelH3:
			if !seenH2 {
				return fmt.Errorf("%w: entry %d is H3 before any H2", ErrInvalidOutline, i)
			}
		}
	}
	return nil
}

// Fallback returns the degraded result used when a document cannot be
// processed: a title derived from the filename and an empty outline.
func Fallback(filename string) *Outline {
	return &Outline{
		Title:   HumanizeFilename(filename),
		Outline: []OutlineEntry{},
	}
}

// HumanizeFilename turns a file name into a readable title: the directory
// and extension are removed and "_" and "-" become spaces. An empty result
// yields UntitledDocument.
func HumanizeFilename(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return UntitledDocument
	}
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return UntitledDocument
	}
	return name
}

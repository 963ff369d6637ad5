package outline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
)

var (
	// ErrBudgetExceeded is returned when a document takes longer than the
	// configured processing budget
	ErrBudgetExceeded = errors.New("outline: processing budget exceeded")

	// ErrNoDocument is returned when an Extractor has no document to process
	ErrNoDocument = errors.New("outline: no document")
)

// stage names a checkpoint between whole-document operations
type stage string

const (
	stageStart    stage = "start"
	stageLoad     stage = "load"
	stageTitle    stage = "title selection"
	stageClassify stage = "classification"
	stageEmit     stage = "emit"
)

// budget enforces the soft processing deadline. It is checked only at
// stage boundaries, never inside a heuristic.
type budget struct {
	ctx      context.Context
	clock    func() time.Time
	start    time.Time
	deadline time.Time // zero when disabled
}

func newBudget(opts ExtractOptions) *budget {
	b := &budget{
		ctx:   opts.ctx,
		clock: opts.clock,
	}
	b.start = b.clock()
	if opts.budget > 0 {
		b.deadline = b.start.Add(opts.budget)
	}
	return b
}

// check returns an error if the context is done or the deadline passed
func (b *budget) check(s stage) error {
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("outline: canceled at %s: %w", s, err)
	}
	if b.deadline.IsZero() {
		return nil
	}
	if now := b.clock(); now.After(b.deadline) {
		return fmt.Errorf("%w: %s after %s at %s",
			ErrBudgetExceeded, now.Sub(b.start).Round(time.Millisecond), b.deadline.Sub(b.start), s)
	}
	return nil
}

// elapsed returns the time since the budget started
func (b *budget) elapsed() time.Duration {
	return b.clock().Sub(b.start)
}

// assembler turns one Document into an Outline. It holds only immutable
// configuration and can be shared between goroutines.
type assembler struct {
	classifier *layout.HeadingClassifier
	selector   *layout.TitleSelector
}

func newAssembler(config layout.Config) *assembler {
	return &assembler{
		classifier: layout.NewHeadingClassifierWithConfig(config),
		selector:   layout.NewTitleSelectorWithConfig(config),
	}
}

// assemble runs title selection and outline construction. The document is
// never modified.
func (a *assembler) assemble(doc *model.Document, b *budget) (*model.Outline, layout.TitleSelection, error) {
	if err := doc.Validate(); err != nil {
		return nil, layout.TitleSelection{}, err
	}

	title := a.selector.Select(doc)
	if err := b.check(stageTitle); err != nil {
		return nil, title, err
	}

	entries := a.collect(doc)
	if err := b.check(stageClassify); err != nil {
		return nil, title, err
	}

	// Pages only; ties keep document order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Page < entries[j].Page
	})

	entries = excludeTitle(entries, title.Text)

	// Single authoritative repair point, after the final ordering and after
	// any removal
	entries = layout.ValidateEntries(entries)

	result := &model.Outline{
		Title:   title.Text,
		Outline: entries,
	}
	if err := result.Validate(); err != nil {
		return nil, title, err
	}
	return result, title, nil
}

// collect classifies every heading in pre-order and returns fresh entries
// with 1-based pages
func (a *assembler) collect(doc *model.Document) []model.OutlineEntry {
	entries := []model.OutlineEntry{}
	doc.Walk(func(s *model.Section) bool {
		text := s.Heading.TrimmedText()
		if text == "" {
			return true
		}
		level := a.classifier.Classify(s.Heading, doc.Style)
		if level == model.LevelNone {
			return true
		}
		entries = append(entries, model.OutlineEntry{
			Level: level,
			Text:  text,
			Page:  s.Heading.Page + 1,
		})
		return true
	})
	return entries
}

// excludeTitle drops entries whose text matches the title
func excludeTitle(entries []model.OutlineEntry, title string) []model.OutlineEntry {
	key := normalizeText(title)
	if key == "" {
		return entries
	}

	kept := make([]model.OutlineEntry, 0, len(entries))
	for _, e := range entries {
		if normalizeText(e.Text) != key {
			kept = append(kept, e)
		}
	}
	return kept
}

// normalizeText folds case, applies NFKC and collapses whitespace so that
// "Annual  Report" and "ANNUAL REPORT" compare equal
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

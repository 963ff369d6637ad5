package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Extractor provides a fluent interface for building document outlines.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining. Terminal operations
// never modify the receiver.
type Extractor struct {
	// Source (exactly one of path, stream or doc is set)
	filename string
	path     string
	stream   *stream
	doc      *model.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		path:     e.path,
		stream:   e.stream,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// load returns the document for one terminal call. Files are parsed on
// every call; a reader is parsed once and shared by every Extractor
// derived from the same FromReader call.
func (e *Extractor) load() (*model.Document, error) {
	var doc *model.Document
	switch {
	case e.doc != nil:
		doc = e.doc
	case e.path != "":
		d, err := source.LoadFile(e.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", e.path, err)
		}
		doc = d
	case e.stream != nil:
		d, err := e.stream.load()
		if err != nil {
			return nil, err
		}
		doc = d
	default:
		return nil, ErrNoDocument
	}
	return e.withFilename(doc), nil
}

// withFilename returns doc with the configured filename filled in when the
// document carries none. doc itself is never modified.
func (e *Extractor) withFilename(doc *model.Document) *model.Document {
	if doc.Metadata.Filename != "" || e.filename == "" {
		return doc
	}
	d := *doc
	d.Metadata.Filename = e.filename
	return &d
}

// stream is a single-use reader parsed at most once
type stream struct {
	once sync.Once
	r    io.Reader
	name string
	doc  *model.Document
	err  error
}

func (s *stream) load() (*model.Document, error) {
	s.once.Do(func() {
		s.doc, s.err = source.Load(s.r, s.name)
		if s.err != nil {
			s.err = fmt.Errorf("failed to load %s: %w", s.name, s.err)
		}
		s.r = nil
	})
	return s.doc, s.err
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Config sets the heuristic profile used for heading classification and
// title selection. An invalid profile makes every terminal operation fail.
//
// Example:
//
//	profile, _ := layout.LoadConfig("profile.yaml")
//	result, err := outline.Open("doc.pdf").Config(profile).Outline()
func (e *Extractor) Config(config layout.Config) *Extractor {
	newExt := e.clone()
	if err := config.Validate(); err != nil && newExt.err == nil {
		newExt.err = err
	}
	newExt.options.config = config
	return newExt
}

// Budget sets the soft per-document processing budget. The budget is
// checked between processing stages; a zero or negative budget disables
// it. Default: DefaultBudget.
//
// Example:
//
//	result := outline.Open("doc.pdf").Budget(2 * time.Second).OutlineOrFallback()
func (e *Extractor) Budget(d time.Duration) *Extractor {
	newExt := e.clone()
	newExt.options.budget = d
	return newExt
}

// Context sets a context whose cancellation is observed at the same
// checkpoints as the budget.
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx == nil {
		ctx = context.Background()
	}
	newExt.options.ctx = ctx
	return newExt
}

// Clock replaces the time source used by the budget. Intended for tests.
func (e *Extractor) Clock(now func() time.Time) *Extractor {
	newExt := e.clone()
	if now == nil {
		now = time.Now
	}
	newExt.options.clock = now
	return newExt
}

// Logger sets the logger that receives degradation warnings. By default
// nothing is logged.
func (e *Extractor) Logger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newExt.options.logger = logger
	return newExt
}

// Filename sets the filename used for the title fallback when the document
// metadata has none.
//
// Example:
//
//	result, err := outline.FromDocument(doc).Filename("annual_report.pdf").Outline()
func (e *Extractor) Filename(name string) *Extractor {
	newExt := e.clone()
	newExt.filename = name
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Outline builds the document outline. It returns an error on any hard
// failure: the document cannot be loaded or violates structural
// preconditions, the budget is exceeded, or the assembled outline
// violates the output contract. Panics raised while processing are
// returned as errors.
//
// Example:
//
//	result, err := outline.Open("document.pdf").Outline()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := json.Marshal(result)
func (e *Extractor) Outline() (result *model.Outline, err error) {
	result, _, err = e.run()
	return result, err
}

// OutlineOrFallback builds the document outline and never fails. On any
// hard failure it logs a warning and returns model.Fallback for the
// document's filename, which always satisfies the output contract.
//
// Example:
//
//	result := outline.Open("document.pdf").OutlineOrFallback()
func (e *Extractor) OutlineOrFallback() *model.Outline {
	result, _, err := e.run()
	if err == nil {
		return result
	}

	name := e.filename
	if name == "" && e.doc != nil {
		name = e.doc.Metadata.Filename
	}
	e.options.logger.Warn("using fallback outline",
		slog.String("file", name),
		slog.String("reason", err.Error()),
	)
	return model.Fallback(name)
}

// Title runs only title selection and reports which strategy produced the
// title.
//
// Example:
//
//	sel, err := outline.Open("document.pdf").Title()
//	fmt.Println(sel.Text, sel.Strategy)
func (e *Extractor) Title() (layout.TitleSelection, error) {
	if e.err != nil {
		return layout.TitleSelection{}, e.err
	}
	doc, err := e.load()
	if err != nil {
		return layout.TitleSelection{}, err
	}
	if err := doc.Validate(); err != nil {
		return layout.TitleSelection{}, err
	}
	return layout.NewTitleSelectorWithConfig(e.options.config).Select(doc), nil
}

// JSON builds the outline and encodes it as indented JSON. Non-ASCII text
// is written as-is.
//
// Example:
//
//	data, err := outline.Open("document.pdf").JSON()
//	os.WriteFile("document.json", data, 0644)
func (e *Extractor) JSON() ([]byte, error) {
	result, err := e.Outline()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Explanation describes how a single heading span was classified
type Explanation struct {
	Heading        *model.Heading
	Classification layout.Classification
}

// Explain classifies every heading span of the document in document order
// and returns the signals behind each decision. It does not apply
// hierarchy repair or title exclusion.
func (e *Extractor) Explain() ([]Explanation, error) {
	if e.err != nil {
		return nil, e.err
	}
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	classifier := layout.NewHeadingClassifierWithConfig(e.options.config)
	var out []Explanation
	for _, h := range doc.Headings() {
		out = append(out, Explanation{
			Heading:        h,
			Classification: classifier.Analyze(h, doc.Style),
		})
	}
	return out, nil
}

// run performs load and assembly under the budget
func (e *Extractor) run() (result *model.Outline, title layout.TitleSelection, err error) {
	if e.err != nil {
		return nil, title, e.err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("outline: panic while processing %q: %v", e.filename, r)
		}
	}()

	b := newBudget(e.options)
	if err := b.check(stageStart); err != nil {
		return nil, title, err
	}

	doc, err := e.load()
	if err != nil {
		return nil, title, err
	}
	if err := b.check(stageLoad); err != nil {
		return nil, title, err
	}

	result, title, err = newAssembler(e.options.config).assemble(doc, b)
	if err != nil {
		return nil, title, err
	}
	if err := b.check(stageEmit); err != nil {
		return nil, title, err
	}

	e.options.logger.Debug("outline assembled",
		slog.String("file", e.filename),
		slog.String("title", result.Title),
		slog.String("title_strategy", title.Strategy.String()),
		slog.Int("entries", len(result.Outline)),
		slog.Duration("elapsed", b.elapsed()),
	)
	return result, title, nil
}

// EncodeJSON writes an outline as JSON indented by two spaces, without
// escaping HTML characters
func EncodeJSON(w io.Writer, o *model.Outline) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

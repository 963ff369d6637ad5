// Package outline extracts a title and an H1-H3 heading outline from
// documents through a fluent API.
//
// Basic usage:
//
//	result, err := outline.Open("report.pdf").Outline()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(result.Title)
//	for _, e := range result.Outline {
//	    fmt.Println(e.Level, e.Text, e.Page)
//	}
//
// With options:
//
//	result := outline.Open("report.pdf").
//	    Config(profile).
//	    Budget(5 * time.Second).
//	    Logger(logger).
//	    OutlineOrFallback()
//
// OutlineOrFallback never fails: any hard failure (an invalid document, an
// exceeded time budget, an outline that violates the output contract)
// yields a title derived from the filename and an empty outline.
//
// Documents already parsed elsewhere can be passed directly with
// FromDocument; the lower-level layout package exposes the classifier,
// hierarchy validator and title selector on their own.
package outline

import (
	"io"

	"github.com/tsawler/outline/model"
)

// Open returns an Extractor for the file at path. The file is read and
// parsed by the input adapter registered for its format when a terminal
// operation runs.
//
// Example:
//
//	result, err := outline.Open("document.pdf").Outline()
func Open(path string) *Extractor {
	return &Extractor{
		filename: path,
		path:     path,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor that parses r with the input adapter for
// filename's format. The reader is consumed by the first terminal
// operation.
//
// Example:
//
//	f, _ := os.Open("notes.md")
//	defer f.Close()
//	result, err := outline.FromReader(f, "notes.md").Outline()
func FromReader(r io.Reader, filename string) *Extractor {
	return &Extractor{
		filename: filename,
		stream:   &stream{r: r, name: filename},
		options:  defaultOptions(),
	}
}

// FromDocument returns an Extractor for an already parsed document. The
// document is read but never modified.
//
// Example:
//
//	doc := model.NewDocument()
//	doc.AddSection(&model.Section{Heading: &model.Heading{Text: "1. Introduction", ...}})
//	result, err := outline.FromDocument(doc).Outline()
func FromDocument(doc *model.Document) *Extractor {
	e := &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
	if doc != nil {
		e.filename = doc.Metadata.Filename
	}
	return e
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := outline.Must(outline.Open("document.pdf").Outline())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

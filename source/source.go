// Package source turns input files into the typed document tree consumed by
// the outline engine.
//
// Each supported format has an adapter implementing Source. Adapters
// extract heading candidates with their typographic signals (font size,
// weight and, where the format has a page model, geometry), nest them by
// prominence, and estimate the body text size of the document:
//
//	doc, err := source.LoadFile("report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(doc.HeadingCount(), doc.Style.BodySize)
//
// The format is taken from the file content when it has a recognizable
// signature and from the filename extension otherwise.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tsawler/outline/format"
	"github.com/tsawler/outline/model"
)

// ErrUnsupportedFormat is returned when no adapter handles an input
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Source parses one input format into a Document
type Source interface {
	Load(r io.Reader, filename string) (*model.Document, error)
}

// ForFormat returns the adapter for a format
func ForFormat(f format.Format) (Source, error) {
	switch f {
	case format.PDF:
		return NewPDFSource(), nil
	case format.DOCX:
		return NewDOCXSource(), nil
	case format.EPUB:
		return NewEPUBSource(), nil
	case format.HTML:
		return NewHTMLSource(), nil
	case format.Markdown:
		return NewMarkdownSource(), nil
	case format.JSON:
		return NewJSONSource(), nil
	case format.Image:
		return NewImageSource(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// ForFile returns the adapter for a filename, by extension
func ForFile(filename string) (Source, error) {
	f := format.Detect(filename)
	if f == format.Unknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	return ForFormat(f)
}

// IsSupported reports whether filename has an extension an adapter handles
func IsSupported(filename string) bool {
	return format.Detect(filename) != format.Unknown
}

// Detect determines the format of data, preferring the content signature
// over the filename extension
func Detect(data []byte, filename string) (format.Format, error) {
	f, err := format.DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return format.Unknown, fmt.Errorf("source: detect %s: %w", filename, err)
	}
	if f != format.Unknown {
		return f, nil
	}
	return format.Detect(filename), nil
}

// Load reads r completely, detects its format and parses it with the
// matching adapter. The returned document carries the base filename and
// the format name in its metadata.
func Load(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	f, err := Detect(data, filename)
	if err != nil {
		return nil, err
	}
	src, err := ForFormat(f)
	if err != nil {
		return nil, err
	}

	doc, err := src.Load(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}
	return finish(doc, filename, f), nil
}

// LoadFile opens and parses the file at path
func LoadFile(path string) (*model.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file, path)
}

// finish fills the metadata that every loaded document carries
func finish(doc *model.Document, filename string, f format.Format) *model.Document {
	if doc.Metadata.Filename == "" && filename != "" {
		doc.Metadata.Filename = filepath.Base(filename)
	}
	if doc.Metadata.Format == "" {
		doc.Metadata.Format = f.String()
	}
	if doc.Metadata.Custom == nil {
		doc.Metadata.Custom = make(map[string]string)
	}
	return doc
}

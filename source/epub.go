package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"

	"github.com/tsawler/outline/model"
)

// EPUBSource reads EPUB books. Spine items are parsed in reading order with
// the HTML rules; each item with content starts a new page.
type EPUBSource struct{}

// NewEPUBSource creates an EPUB adapter
func NewEPUBSource() *EPUBSource {
	return &EPUBSource{}
}

// Load parses the first rendition of the book. Unreadable spine items are
// skipped. The package title is kept in Metadata.Custom["title"].
func (s *EPUBSource) Load(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	book, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("source: open epub %s: %w", filename, err)
	}
	if len(book.Rootfiles) == 0 {
		return nil, fmt.Errorf("source: open epub %s: no rootfiles", filename)
	}
	rendition := book.Rootfiles[0]

	doc := model.NewDocument()
	doc.Style.BodySize = nominalBodySize
	w := newHTMLWalker(doc)

	for _, ref := range rendition.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		root, err := parseItem(ref.Item)
		if err != nil {
			continue
		}
		if w.dirty {
			w.page++
			w.dirty = false
		}
		w.walkDocument(root)
	}

	if rendition.Title != "" {
		doc.Metadata.Custom["title"] = cleanText(rendition.Title)
	}
	return doc, nil
}

// parseItem reads one spine item as HTML
func parseItem(item *epub.Item) (*html.Node, error) {
	rc, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return html.Parse(rc)
}

package source

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/outline/model"
)

// JSONSource reads a document tree that an external parser serialized as
// JSON:
//
//	{
//	  "sections": [{"heading": {"text": "...", "page": 0,
//	                            "style": {"max_size": 14, "bold": true},
//	                            "geometry": {...}},
//	                "children": [...]}],
//	  "style_context": {"body_size": 10},
//	  "metadata": {"filename": "report.pdf"}
//	}
type JSONSource struct{}

// NewJSONSource creates a JSON adapter
func NewJSONSource() *JSONSource {
	return &JSONSource{}
}

// Load decodes the tree and NFKC-normalizes heading text. Structural checks
// are left to model.Document.Validate.
func (s *JSONSource) Load(r io.Reader, filename string) (*model.Document, error) {
	doc := model.NewDocument()
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", filename, err)
	}
	doc.Walk(func(sec *model.Section) bool {
		if sec.Heading != nil {
			sec.Heading.Text = norm.NFKC.String(sec.Heading.Text)
		}
		return true
	})
	return doc, nil
}

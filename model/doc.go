// Package model provides the intermediate representation consumed and
// produced by the outline engine.
//
// The input side is a [Document]: an ordered tree of [Section] values, each
// optionally carrying a [Heading] with its text, page index, [Style] and
// optional [Geometry], plus a document-wide [StyleContext] describing the
// size of ordinary body text.
//
//	doc := model.NewDocument()
//	doc.Style.BodySize = 10
//	doc.Metadata.Filename = "report.pdf"
//	doc.AddSection(&model.Section{Heading: &model.Heading{
//	    Text:  "1. Introduction",
//	    Page:  0,
//	    Style: model.Style{MaxSize: 14, Bold: true},
//	}})
//
// The output side is an [Outline]: a title plus an ordered list of
// [OutlineEntry] values tagged with a [Level] of H1, H2 or H3. Outlines
// serialize to the fixed JSON contract
//
//	{"title": "...", "outline": [{"level": "H1", "text": "...", "page": 1}]}
//
// # Geometry
//
// [Geometry] uses PDF page coordinates: the origin is the bottom-left corner
// and Y grows upward, so the top of a span is its larger Y value. Adapters for
// sources with a top-left origin convert before building headings.
//
// # Validation
//
// [Document.Validate] checks the preconditions the engine relies on and
// [Outline.Validate] checks the output contract. Both return errors wrapping
// [ErrInvalidDocument] or [ErrInvalidOutline].
package model

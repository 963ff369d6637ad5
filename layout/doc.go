// Package layout decides which text spans of a document are headings, at
// which depth, and which span is the document title.
//
// # Heading Classification
//
// The [HeadingClassifier] combines font size relative to body text with
// boldness, casing, numbering syntax and page position:
//
//	classifier := layout.NewHeadingClassifier()
//	level := classifier.Classify(heading, doc.Style)
//
// [HeadingClassifier.Analyze] returns the same decision together with the
// signals that produced it.
//
// # Hierarchy Repair
//
// [ValidateLevels] and [ValidateEntries] make a sequence of levels nest
// properly by promoting orphans: an H2 before any H1 becomes H1, an H3
// without an open H2 becomes H2. Sequences must already be in document
// order; [SortForHierarchy] orders heading spans by page and position.
//
// # Title Selection
//
// The [TitleSelector] runs an ordered waterfall of strategies and falls
// back to the document filename:
//
//	selection := layout.NewTitleSelector().Select(doc)
//	fmt.Println(selection.Text, selection.Strategy)
//
// # Configuration
//
// All thresholds, vocabularies and patterns live in [Config]. Profiles can
// be loaded from YAML, where absent keys keep their defaults:
//
//	cfg, err := layout.LoadConfig("profile.yaml")
//	classifier := layout.NewHeadingClassifierWithConfig(cfg)
package layout

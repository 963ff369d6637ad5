package ocr

import (
	"errors"
	"image"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Options configure a Client. Zero values keep Tesseract's defaults.
type Options struct {
	// Language is one or more "+"-separated language codes, e.g. "eng+fra"
	Language string

	// PageSegMode is the Tesseract page segmentation mode (PSM 1-13)
	PageSegMode int
}

// Line is one recognized text line. Box is in image pixel coordinates with
// the origin at the top-left corner.
type Line struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Height returns the pixel height of the line box
func (l Line) Height() int {
	return l.Box.Dy()
}

// IsEmpty reports whether the line carries no visible text
func (l Line) IsEmpty() bool {
	return strings.TrimSpace(l.Text) == ""
}

// Recognizer turns encoded image bytes into text lines. *Client implements
// it; tests substitute their own.
type Recognizer interface {
	RecognizeLines(imageData []byte) ([]Line, error)
	Close() error
}

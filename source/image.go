package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/ocr"
)

// ImageSource reads a single scanned page through OCR. Each recognized text
// line is a span whose font size is its pixel height; lines noticeably
// taller than the common line height become heading candidates. Image
// coordinates (origin top-left) are flipped to the document convention.
type ImageSource struct {
	// OCR configures the engine: language and page segmentation mode
	OCR ocr.Options

	// NewRecognizer opens an OCR engine for one image
	NewRecognizer func(ocr.Options) (ocr.Recognizer, error)

	// HeadingRatio is the minimum ratio of line height to body line height
	// for a heading candidate
	HeadingRatio float64
}

// NewImageSource creates an image adapter backed by Tesseract. Without the
// "ocr" build tag every load fails with ocr.ErrOCRNotEnabled.
func NewImageSource() *ImageSource {
	return &ImageSource{
		NewRecognizer: openTesseract,
		HeadingRatio:  1.2,
	}
}

func openTesseract(opts ocr.Options) (ocr.Recognizer, error) {
	c, err := ocr.New(opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Load decodes the image header for its dimensions and runs OCR
func (s *ImageSource) Load(r io.Reader, filename string) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", filename, err)
	}

	cfg, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: decode image %s: %w", filename, err)
	}

	rec, err := s.NewRecognizer(s.OCR)
	if err != nil {
		return nil, fmt.Errorf("source: ocr %s: %w", filename, err)
	}
	defer rec.Close()

	lines, err := rec.RecognizeLines(data)
	if err != nil {
		return nil, fmt.Errorf("source: ocr %s: %w", filename, err)
	}

	doc := model.NewDocument()
	doc.Metadata.Custom["image_format"] = kind

	samples := make([]SizeSample, 0, len(lines))
	for _, l := range lines {
		samples = append(samples, SizeSample{Size: float64(l.Height()), Chars: len([]rune(l.Text))})
	}
	doc.Style.BodySize = EstimateBodySize(samples)

	width, height := float64(cfg.Width), float64(cfg.Height)
	tree := newTreeBuilder(doc)
	for _, l := range lines {
		text := cleanText(l.Text)
		size := float64(l.Height())
		if text == "" || size < doc.Style.BodySize*s.HeadingRatio {
			continue
		}
		h := &model.Heading{
			Text:  text,
			Style: model.Style{MaxSize: size},
			Geometry: model.NewGeometry(
				float64(l.Box.Min.X), height-float64(l.Box.Max.Y),
				float64(l.Box.Max.X), height-float64(l.Box.Min.Y),
				width, height,
			),
		}
		tree.add(h, size)
	}
	return doc, nil
}

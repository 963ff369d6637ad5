//go:build !ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for reading heading candidates from scanned pages and images.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed.
package ocr

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New(opts Options) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeLines returns ErrOCRNotEnabled.
func (c *Client) RecognizeLines(imageData []byte) ([]Line, error) {
	return nil, ErrOCRNotEnabled
}

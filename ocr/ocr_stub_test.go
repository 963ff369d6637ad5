//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New(Options{Language: "eng"})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestStubRecognizeLines(t *testing.T) {
	var client Client
	lines, err := client.RecognizeLines([]byte{0x89, 'P', 'N', 'G'})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if lines != nil {
		t.Errorf("Expected no lines, got %v", lines)
	}
}

func TestStubImplementsRecognizer(t *testing.T) {
	var _ Recognizer = (*Client)(nil)
}

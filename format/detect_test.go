package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Unknown, "Unknown"},
		{PDF, "PDF"},
		{DOCX, "DOCX"},
		{EPUB, "EPUB"},
		{HTML, "HTML"},
		{Markdown, "Markdown"},
		{JSON, "JSON"},
		{Image, "Image"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatExtension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Unknown, ""},
		{PDF, ".pdf"},
		{DOCX, ".docx"},
		{EPUB, ".epub"},
		{HTML, ".html"},
		{Markdown, ".md"},
		{JSON, ".json"},
		{Image, ".png"},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.pdf", PDF},
		{"DOCUMENT.PDF", PDF},
		{"report.docx", DOCX},
		{"book.epub", EPUB},
		{"page.html", HTML},
		{"page.HTM", HTML},
		{"page.xhtml", HTML},
		{"README.md", Markdown},
		{"notes.markdown", Markdown},
		{"tree.json", JSON},
		{"scan.png", Image},
		{"scan.JPG", Image},
		{"scan.jpeg", Image},
		{"scan.tiff", Image},
		{"scan.webp", Image},
		{"sheet.xlsx", Unknown},
		{"archive.zip", Unknown},
		{"noextension", Unknown},
		{"", Unknown},
		{"/path/to/file.pdf", PDF},
		{"/path/to/file.epub", EPUB},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "PDF magic bytes",
			data: []byte("%PDF-1.4"),
			want: PDF,
		},
		{
			name: "ZIP magic bytes (DOCX/EPUB)",
			data: []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00},
			want: Unknown, // ZIP needs further inspection
		},
		{
			name: "PNG",
			data: []byte("\x89PNG\r\n\x1a\n"),
			want: Image,
		},
		{
			name: "JPEG",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			want: Image,
		},
		{
			name: "GIF",
			data: []byte("GIF89a"),
			want: Image,
		},
		{
			name: "TIFF little endian",
			data: []byte("II*\x00\x08\x00"),
			want: Image,
		},
		{
			name: "WebP",
			data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "),
			want: Image,
		},
		{
			name: "RIFF without WEBP",
			data: []byte("RIFF\x00\x00\x00\x00WAVEfmt "),
			want: Unknown,
		},
		{
			name: "HTML with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HTML,
		},
		{
			name: "HTML with whitespace before DOCTYPE",
			data: []byte("  \n  <!DOCTYPE HTML PUBLIC"),
			want: HTML,
		},
		{
			name: "XHTML with XML declaration",
			data: []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`),
			want: HTML,
		},
		{
			name: "JSON object",
			data: []byte("\n  {\"sections\": []}"),
			want: JSON,
		},
		{
			name: "JSON with byte order mark",
			data: []byte("\xEF\xBB\xBF{\"a\":1}"),
			want: JSON,
		},
		{
			name: "JSON array is not a document",
			data: []byte("[1, 2, 3]"),
			want: Unknown,
		},
		{
			name: "markdown has no signature",
			data: []byte("# Heading\n\nText"),
			want: Unknown,
		},
		{
			name: "short data",
			data: []byte{0x50, 0x4B},
			want: Unknown,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

// makeZIP builds an in-memory archive with the given file names and contents
func makeZIP(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("Write(%q) error = %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader_ZIP(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		order []string
		want  Format
	}{
		{
			name:  "EPUB",
			files: map[string]string{"mimetype": "application/epub+zip", "META-INF/container.xml": "<container/>"},
			order: []string{"mimetype", "META-INF/container.xml"},
			want:  EPUB,
		},
		{
			name:  "DOCX",
			files: map[string]string{"[Content_Types].xml": "<Types/>", "word/document.xml": "<w:document/>"},
			order: []string{"[Content_Types].xml", "word/document.xml"},
			want:  DOCX,
		},
		{
			name:  "spreadsheet is not supported",
			files: map[string]string{"[Content_Types].xml": "<Types/>", "xl/workbook.xml": "<workbook/>"},
			order: []string{"[Content_Types].xml", "xl/workbook.xml"},
			want:  Unknown,
		},
		{
			name:  "wrong mimetype",
			files: map[string]string{"mimetype": "application/vnd.oasis.opendocument.text"},
			order: []string{"mimetype"},
			want:  Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := makeZIP(t, tt.files, tt.order)
			got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_PDF(t *testing.T) {
	data := []byte("%PDF-1.4\n%%EOF")
	r := bytes.NewReader(data)

	format, err := DetectFromReader(r, int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != PDF {
		t.Errorf("DetectFromReader() = %v, want PDF", format)
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00}
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("DetectFromReader() expected error for truncated archive")
	}
}

func TestDetectFromReader_Unknown(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")
	r := bytes.NewReader(data)

	format, err := DetectFromReader(r, int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", format)
	}
}

// Package format identifies input files so that documents which are not
// PDFs can be reported by what they are.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// Office indicates a ZIP-based office document such as DOCX or XLSX.
	Office
	// HTML indicates an HTML document.
	HTML
	// Image indicates a PNG or JPEG image.
	Image
)

// headerWindow is how far into a file the %PDF- header may appear.
// Readers accept leading garbage before it.
const headerWindow = 1024

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte("\xff\xd8\xff")
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case Office:
		return "office document"
	case HTML:
		return "HTML"
	case Image:
		return "image"
	default:
		return "Unknown"
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx", ".xlsx", ".pptx", ".odt":
		return Office
	case ".html", ".htm":
		return HTML
	case ".png", ".jpg", ".jpeg":
		return Image
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
func DetectFromMagic(data []byte) Format {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}

	switch {
	case bytes.Contains(window, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, zipMagic):
		return Office
	case bytes.HasPrefix(data, pngMagic), bytes.HasPrefix(data, jpegMagic):
		return Image
	case detectHTMLMagic(data):
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 512 {
		data = data[:512]
	}
	upper := bytes.ToUpper(data)
	return bytes.HasPrefix(upper, []byte("<!DOCTYPE HTML")) || bytes.HasPrefix(upper, []byte("<HTML"))
}

// DetectFromReader reads the start of r and determines its format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, headerWindow)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

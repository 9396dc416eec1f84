// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Content streams for common page shapes. F1 is Helvetica and F2
// Helvetica-Bold.
const (
	// TextPage has a 24pt bold title above a 12pt body line.
	TextPage = "BT /F2 24 Tf 72 700 Td (Report Title) Tj ET\n" +
		"BT /F1 12 Tf 72 650 Td (Hello world from the body) Tj ET"

	// ScannedPage paints a full-page rectangle and no text.
	ScannedPage = "0 0 612 792 re f"

	// TablePage draws a ruled 2x2 grid holding Name/Age and Ann/42.
	TablePage = "72 499.75 200 0.5 re f 72 479.75 200 0.5 re f 72 459.75 200 0.5 re f\n" +
		"71.75 460 0.5 40 re f 171.75 460 0.5 40 re f 271.75 460 0.5 40 re f\n" +
		"BT /F1 10 Tf 80 485 Td (Name) Tj ET BT /F1 10 Tf 180 485 Td (Age) Tj ET\n" +
		"BT /F1 10 Tf 80 465 Td (Ann) Tj ET BT /F1 10 Tf 180 465 Td (42) Tj ET"
)

// Build assembles a PDF with one letter-sized page per content stream.
// Both fonts use a fixed 500 unit advance.
func Build(contents ...string) []byte {
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	font := func(base string) string {
		return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", base, widths)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled below
		font("Helvetica"),
		font("Helvetica-Bold"),
	}
	var kids []string
	for _, c := range contents {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c), c),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), len(contents))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

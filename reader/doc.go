// Package reader decodes PDF pages into the primitives consumed by layout
// reconstruction and table detection.
//
// Decoding is delegated to github.com/ledongthuc/pdf. This package turns
// its positioned glyphs into styled text blocks in top-left page space,
// derives words and rulings for table detection, and classifies open
// failures into distinct errors.
//
// # Opening PDF Files
//
//	r, err := reader.Open("document.pdf", "")
//	if errors.Is(err, reader.ErrPasswordRequired) {
//	    // ask for a password
//	}
//	defer r.Close()
//
// Use [New] with an io.ReaderAt for in-memory documents.
//
// # Page Access
//
// Pages are addressed by zero-based index:
//
//   - PlainText(i) - unformatted text, used to spot scanned pages
//   - TextBlocks(i) - styled blocks with bounding boxes
//   - Geometry(i) - words and rulings
//   - Tables(i) - tables found by the configured detector
package reader

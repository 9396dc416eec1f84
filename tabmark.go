// Package tabmark converts PDF documents to Markdown, keeping headings,
// inline emphasis and tables.
//
// Basic usage:
//
//	md, warnings, err := tabmark.Open("document.pdf").Markdown(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabmark.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, err := tabmark.Open("report.pdf").
//	    Pages("1-3,7").
//	    Password("secret").
//	    TableStrategy("text").
//	    Document(ctx)
//
// Pages without selectable text are reported in Document.ScannedPages.
// For lower-level access the reader and layout packages are available.
package tabmark

import (
	"github.com/tsawler/tabmark/format"
	"github.com/tsawler/tabmark/reader"
)

// Open returns an Extractor for the PDF file at filename. The file is
// opened by the first terminal operation and closed when it returns.
//
// Example:
//
//	md, warnings, err := tabmark.Open("document.pdf").Markdown(ctx)
func Open(filename string) *Extractor {
	e := &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
	if w, ok := ExtensionWarning(filename); ok {
		e.warnings = append(e.warnings, w)
	}
	return e
}

// ExtensionWarning reports a name whose extension is not .pdf in any case.
// Such files are still converted.
func ExtensionWarning(name string) (Warning, bool) {
	if format.Detect(name) == format.PDF {
		return Warning{}, false
	}
	return Warning{Message: "file does not have a .pdf extension: " + name}, true
}

// FromBytes returns an Extractor over an in-memory PDF.
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		inMem:   true,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// The caller is responsible for closing the reader. Terminal operations
// detect tables according to the Extractor's table options and restore
// the reader's own detector before returning.
//
// Example:
//
//	r, err := reader.Open("document.pdf", "")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	doc, err := tabmark.FromReader(r).Document(ctx)
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:  r,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := tabmark.Must(tabmark.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

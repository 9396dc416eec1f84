package tabmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/tabmark/pages"
	"github.com/tsawler/tabmark/reader"
	"github.com/tsawler/tabmark/tables"
)

// Extractor provides a fluent interface for converting a PDF to Markdown.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source; exactly one is set
	filename string
	data     []byte
	inMem    bool
	reader   *reader.Reader

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during configuration
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		data:     e.data,
		inMem:    e.inMem,
		reader:   e.reader,
		options:  e.options.clone(),
		err:      e.err,
		warnings: append([]Warning(nil), e.warnings...),
	}
}

// open returns the reader to use and whether the caller must close it.
func (e *Extractor) open() (*reader.Reader, bool, error) {
	if e.reader != nil {
		return e.reader, false, nil
	}
	if e.inMem {
		r, err := reader.New(bytes.NewReader(e.data), int64(len(e.data)), e.options.password)
		if err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	if e.filename == "" {
		return nil, false, errors.New("no filename specified")
	}
	r, err := reader.Open(e.filename, e.options.password)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages selects pages with a comma-separated list of 1-based numbers and
// inclusive ranges, such as "1-5" or "2,4-6,9". Numbers beyond the end of
// the document are ignored; a malformed expression fails the terminal
// operation with a *pages.ParseError.
//
// Example:
//
//	doc, err := tabmark.Open("doc.pdf").Pages("1,3-4").Document(ctx)
func (e *Extractor) Pages(expr string) *Extractor {
	newExt := e.clone()
	newExt.options.pages = expr
	return newExt
}

// Password sets the password used to open an encrypted document.
func (e *Extractor) Password(password string) *Extractor {
	newExt := e.clone()
	newExt.options.password = password
	return newExt
}

// WithoutTables disables table detection; every block renders as text.
func (e *Extractor) WithoutTables() *Extractor {
	newExt := e.clone()
	newExt.options.tables = false
	return newExt
}

// TableStrategy selects the table detector by name ("lines" or "text").
// An unknown name is not fatal: tables are disabled with a warning.
func (e *Extractor) TableStrategy(name string) *Extractor {
	newExt := e.clone()
	newExt.options.tableStrategy = name
	return newExt
}

// TableConfig replaces the detector configuration.
func (e *Extractor) TableConfig(cfg tables.Config) *Extractor {
	newExt := e.clone()
	if err := cfg.Validate(); err != nil {
		newExt.err = fmt.Errorf("table config: %w", err)
		return newExt
	}
	newExt.options.tableConfig = cfg
	return newExt
}

// Workers sets how many pages are reconstructed concurrently. Values below
// one mean one.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	if n < 1 {
		n = 1
	}
	newExt.options.workers = n
	return newExt
}

// OverlapThreshold sets the share of a text block's area that must fall
// inside a table for the block to be treated as part of it.
func (e *Extractor) OverlapThreshold(t float64) *Extractor {
	newExt := e.clone()
	if t <= 0 || t > 1 {
		newExt.err = fmt.Errorf("overlap threshold %v outside (0, 1]", t)
		return newExt
	}
	newExt.options.overlapThreshold = t
	return newExt
}

// ============================================================================
// Terminal Operations (execute conversion and return results)
// ============================================================================

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	r, owned, err := e.open()
	if err != nil {
		return 0, err
	}
	if owned {
		defer r.Close()
	}
	return r.PageCount(), nil
}

// Document converts the selected pages. The document is opened for the
// duration of the call and always released before it returns.
//
// Example:
//
//	doc, err := tabmark.Open("report.pdf").Document(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(doc.Markdown())
//	fmt.Println("scanned:", doc.ScannedPages)
func (e *Extractor) Document(ctx context.Context) (*Document, error) {
	if e.err != nil {
		return nil, e.err
	}

	r, owned, err := e.open()
	if err != nil {
		return nil, err
	}
	if owned {
		defer r.Close()
	}

	indices, err := pages.Parse(e.options.pages, r.PageCount())
	if err != nil {
		return nil, err
	}

	warnings := append([]Warning(nil), e.warnings...)
	useTables := e.options.tables
	if useTables {
		detector, err := tables.New(e.options.tableStrategy, e.options.tableConfig)
		if err != nil {
			logger.Warn("table detection unavailable", "strategy", e.options.tableStrategy, "error", err)
			warnings = append(warnings, Warning{Message: fmt.Sprintf("table detection unavailable: %v", err)})
			useTables = false
		} else {
			prev := r.TableDetector()
			r.SetTableDetector(detector)
			defer r.SetTableDetector(prev)
		}
	}

	logger.Debug("converting", "pages", len(indices), "tables", useTables, "workers", e.options.workers)

	doc, err := convertPages(ctx, indices, r, useTables, e.options.convertOptions())
	if err != nil {
		return nil, err
	}
	doc.Warnings = append(warnings, doc.Warnings...)
	return doc, nil
}

// Markdown converts the selected pages and returns the joined Markdown.
//
// Example:
//
//	md, warnings, err := tabmark.Open("document.pdf").Markdown(ctx)
func (e *Extractor) Markdown(ctx context.Context) (string, []Warning, error) {
	doc, err := e.Document(ctx)
	if err != nil {
		return "", nil, err
	}
	return doc.Markdown(), doc.Warnings, nil
}

package tabmark

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tabmark/layout"
	"github.com/tsawler/tabmark/logging"
	"github.com/tsawler/tabmark/model"
	"github.com/tsawler/tabmark/tables"
)

var logger = logging.GetLogger("tabmark")

// PageSeparator is placed between consecutive pages of a Document.
const PageSeparator = "\n\n---\n\n"

// ScannedNotice replaces the body of a page that has no selectable text.
const ScannedNotice = "> ⚠️ This page appears to be a scanned image with no selectable text. " +
	"Consider using `ocrmypdf` to add a text layer before extraction."

// Source supplies decoded page content by zero-based page index.
// *reader.Reader implements Source.
type Source interface {
	// PlainText returns the page text without layout. It is only used to
	// decide whether the page has any selectable text.
	PlainText(i int) (string, error)

	// TextBlocks returns the styled text blocks of the page.
	TextBlocks(i int) ([]model.TextBlock, error)

	// Tables returns the tables detected on the page.
	Tables(i int) ([]model.RawTable, error)
}

// PageResult is the converted form of one page.
type PageResult struct {
	// Number is the 1-based page number.
	Number int

	// Markdown is the page output including its "# Page N" header.
	Markdown string

	// Scanned reports that the page had no selectable text.
	Scanned bool

	// Tables holds the tables that produced output, in detection order.
	Tables []model.RawTable
}

// PageTable is a retained table and the page it was found on.
type PageTable struct {
	Page  int
	Index int
	Rows  [][]model.Cell
}

// Document is the result of converting a selection of pages.
type Document struct {
	Pages []PageResult

	// ScannedPages lists the 1-based numbers of pages without selectable text.
	ScannedPages []int

	Warnings []Warning
}

// Markdown joins the pages with horizontal rules.
func (d *Document) Markdown() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = p.Markdown
	}
	return strings.Join(parts, PageSeparator)
}

// Tables lists every retained table in page order. Index counts from 1
// within each page.
func (d *Document) Tables() []PageTable {
	var out []PageTable
	for _, p := range d.Pages {
		for i, t := range p.Tables {
			out = append(out, PageTable{Page: p.Number, Index: i + 1, Rows: t.Rows})
		}
	}
	return out
}

// convertOptions tunes ConvertPages.
type convertOptions struct {
	workers          int
	overlapThreshold float64
}

func defaultConvertOptions() convertOptions {
	return convertOptions{workers: 1, overlapThreshold: layout.DefaultOverlapThreshold}
}

// ConvertPages converts the pages at the given zero-based indices.
// Pages without selectable text get a fixed notice and are listed in
// Document.ScannedPages. If src fails to produce tables, table handling is
// switched off for the remaining pages and a warning is recorded; any other
// source error aborts the conversion.
func ConvertPages(ctx context.Context, indices []int, src Source, useTables bool) (*Document, error) {
	return convertPages(ctx, indices, src, useTables, defaultConvertOptions())
}

func convertPages(ctx context.Context, indices []int, src Source, useTables bool, opts convertOptions) (*Document, error) {
	if opts.workers < 1 {
		opts.workers = 1
	}
	rec := layout.NewReconstructor(layout.Options{OverlapThreshold: opts.overlapThreshold})

	doc := &Document{Pages: make([]PageResult, len(indices))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	// Decoding is sequential; reconstruction of each decoded page is pure
	// and runs on the group.
	decodeErr := func() error {
		for slot, idx := range indices {
			if err := gctx.Err(); err != nil {
				return err
			}
			number := idx + 1

			text, err := src.PlainText(idx)
			if err != nil {
				return fmt.Errorf("page %d: %w", number, err)
			}
			if strings.TrimSpace(text) == "" {
				logger.Info("page has no selectable text", "page", number)
				doc.Pages[slot] = PageResult{Number: number, Markdown: scannedPage(number), Scanned: true}
				doc.ScannedPages = append(doc.ScannedPages, number)
				continue
			}

			blocks, err := src.TextBlocks(idx)
			if err != nil {
				return fmt.Errorf("page %d: %w", number, err)
			}

			var raw []model.RawTable
			if useTables {
				raw, err = src.Tables(idx)
				if err != nil {
					logger.Warn("table detection disabled", "page", number, "error", err)
					doc.Warnings = append(doc.Warnings, Warning{
						Page:    number,
						Message: fmt.Sprintf("table detection disabled for the rest of the run: %v", err),
					})
					useTables = false
					raw = nil
				}
			}

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				doc.Pages[slot] = renderPage(rec, number, blocks, raw)
				return nil
			})
		}
		return nil
	}()

	waitErr := g.Wait()
	if decodeErr != nil {
		return nil, decodeErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// renderPage reconstructs one page with text content.
func renderPage(rec *layout.Reconstructor, number int, blocks []model.TextBlock, raw []model.RawTable) PageResult {
	regions := layout.TableRegions(raw)
	md := rec.Page(blocks, regions)
	logger.Debug("page reconstructed", "page", number, "blocks", len(blocks), "tables", len(regions))
	return PageResult{
		Number:   number,
		Markdown: pageHeader(number) + md,
		Tables:   retained(raw),
	}
}

// retained returns the tables whose serialized form is non-empty.
func retained(raw []model.RawTable) []model.RawTable {
	var out []model.RawTable
	for _, t := range raw {
		if tables.ToMarkdown(t.Rows) != "" {
			out = append(out, t)
		}
	}
	return out
}

func pageHeader(number int) string {
	return "# Page " + strconv.Itoa(number) + "\n\n"
}

func scannedPage(number int) string {
	return pageHeader(number) + ScannedNotice
}

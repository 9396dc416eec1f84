// Command tabmark converts a PDF to Markdown, keeping headings, emphasis
// and tables.
//
// Usage:
//
//	tabmark [flags] <file.pdf>
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tsawler/tabmark"
	"github.com/tsawler/tabmark/config"
	"github.com/tsawler/tabmark/logging"
	"github.com/tsawler/tabmark/pages"
	"github.com/tsawler/tabmark/reader"
	"github.com/tsawler/tabmark/xlsx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds flags that are not configuration keys.
type options struct {
	configFile string
	noTables   bool
	xlsxPath   string
	verbose    bool
}

func newFlagSet(stderr io.Writer) (*pflag.FlagSet, *options) {
	opts := &options{}
	flags := pflag.NewFlagSet("tabmark", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringP("output", "o", "", "output Markdown file (default: <input>.md)")
	flags.String("pages", "", `pages to convert, e.g. "1-5" or "2,4-6,9" (default: all)`)
	flags.String("password", "", "password for encrypted PDFs")
	flags.String("table-strategy", tabmark.DefaultTableStrategy, "table detector: lines or text")
	flags.Int("workers", 1, "pages reconstructed concurrently")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.noTables, "no-tables", false, "disable table detection (plain text only)")
	flags.StringVar(&opts.xlsxPath, "tables-xlsx", "", "also export detected tables to this XLSX file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print progress details")
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tabmark [flags] <file.pdf>\n\nConvert a PDF to Markdown.\n\nFlags:\n")
		flags.PrintDefaults()
	}
	return flags, opts
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags, opts := newFlagSet(stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errors.New("expected exactly one input file")
	}
	input := flags.Arg(0)

	cfg, err := config.Load(opts.configFile, flags)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	if err := logging.Setup(logging.Options{Level: level, Writer: stderr}); err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".md"
	}

	var warnings []tabmark.Warning
	if w, ok := tabmark.ExtensionWarning(input); ok {
		warnings = append(warnings, w)
	}

	fmt.Fprintf(stdout, "Opening: %s\n", input)
	r, err := reader.Open(input, cfg.Password)
	if err != nil {
		if errors.Is(err, reader.ErrPasswordRequired) {
			return fmt.Errorf("%w; provide it with --password", err)
		}
		return err
	}
	defer r.Close()

	total := r.PageCount()
	indices, err := pages.Parse(cfg.Pages, total)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Pages to process: %d\n", len(indices))

	useTables := cfg.Tables.Enabled && !opts.noTables
	if opts.verbose {
		fmt.Fprintf(stdout, "PDF: %s (%d pages total)\n", filepath.Base(input), total)
		fmt.Fprintf(stdout, "Table detection: %s\n", enabled(useTables))
	}

	ext := tabmark.FromReader(r).
		Pages(cfg.Pages).
		TableStrategy(cfg.Tables.Strategy).
		TableConfig(cfg.TableConfig()).
		Workers(cfg.Workers).
		OverlapThreshold(cfg.Layout.OverlapThreshold)
	if !useTables {
		ext = ext.WithoutTables()
	}

	doc, err := ext.Document(ctx)
	if err != nil {
		return err
	}
	warnings = append(warnings, doc.Warnings...)

	files := []outputFile{{path: output, data: []byte(doc.Markdown())}}
	var exported int
	if opts.xlsxPath != "" {
		found := doc.Tables()
		exported = len(found)
		var book bytes.Buffer
		if err := xlsx.Write(&book, toSheets(found)); err != nil {
			return fmt.Errorf("building workbook: %w", err)
		}
		files = append(files, outputFile{path: opts.xlsxPath, data: book.Bytes()})
	}
	if err := writeOutputs(files); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nDone! Markdown written to: %s\n", output)
	fmt.Fprintf(stdout, "   Pages processed : %d\n", len(doc.Pages))
	if len(doc.ScannedPages) > 0 {
		fmt.Fprintf(stdout, "   Scanned pages   : %s (no text layer, consider ocrmypdf)\n", joinInts(doc.ScannedPages))
	}
	if opts.xlsxPath != "" {
		fmt.Fprintf(stdout, "   Tables exported : %d to %s\n", exported, opts.xlsxPath)
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	return nil
}

type outputFile struct {
	path string
	data []byte
}

// writeOutputs writes every file or none of them. Parent directories are
// created first and files already written are removed on failure.
func writeOutputs(files []outputFile) error {
	for _, f := range files {
		if dir := filepath.Dir(f.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}
	for i, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			for _, done := range files[:i] {
				_ = os.Remove(done.path)
			}
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}

func toSheets(found []tabmark.PageTable) []xlsx.Table {
	out := make([]xlsx.Table, len(found))
	for i, t := range found {
		out[i] = xlsx.Table{Page: t.Page, Index: t.Index, Rows: t.Rows}
	}
	return out
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

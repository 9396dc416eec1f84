package tabmark

import (
	"github.com/tsawler/tabmark/layout"
	"github.com/tsawler/tabmark/tables"
)

// DefaultTableStrategy is the detector used when none is configured.
const DefaultTableStrategy = "lines"

// ExtractOptions holds configuration for a conversion.
type ExtractOptions struct {
	// Page selection expression; empty means all pages
	pages string

	// Password for encrypted documents
	password string

	// Table handling
	tables        bool
	tableStrategy string
	tableConfig   tables.Config

	// Processing
	workers          int
	overlapThreshold float64
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		tables:           true,
		tableStrategy:    DefaultTableStrategy,
		tableConfig:      tables.DefaultConfig(),
		workers:          1,
		overlapThreshold: layout.DefaultOverlapThreshold,
	}
}

// clone creates a copy of ExtractOptions. All fields are values.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

func (o ExtractOptions) convertOptions() convertOptions {
	return convertOptions{workers: o.workers, overlapThreshold: o.overlapThreshold}
}

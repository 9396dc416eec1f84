// Package tables serializes detected tables to Markdown and provides the
// table-detection engine that discovers them.
//
// # Serialization
//
// [ToMarkdown] renders rows of optional cells as a pipe table. The first
// row is the header, short rows are padded, pipes are escaped and embedded
// newlines collapse to spaces. Degenerate input renders as "".
//
// # Detectors
//
// Table detection is performed by types implementing the [Detector]
// interface. The package provides:
//
//   - [LineDetector] ("lines") - builds grids from drawn rulings
//   - [TextDetector] ("text") - infers grids from whitespace-aligned words
//
// Detectors are created by name from the registry:
//
//	detector, err := tables.New("lines", tables.DefaultConfig())
//	found, err := detector.Detect(geometry)
//
// # Confidence Scoring
//
// Text detection confidence (0-1) is based on:
//
//   - Grid regularity (30%)
//   - Alignment quality (30%)
//   - Line presence (20%)
//   - Cell occupancy (20%)
package tables

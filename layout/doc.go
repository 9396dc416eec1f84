// Package layout reconstructs the Markdown of one page from decoded text
// blocks and detected tables.
//
// # Headings
//
// [BodyFontSize] estimates the dominant font size of a page and
// [HeadingLevelFor] maps a line's size, relative to that body size, onto
// heading levels 1-3.
//
// # Emphasis
//
// Runs are wrapped in Markdown emphasis according to their style flags;
// see [FormatRun]. Headings never keep emphasis markers.
//
// # Reconstruction
//
// The [Reconstructor] turns (blocks, tables) into ordered fragments:
//
//	r := layout.NewReconstructor(layout.DefaultOptions())
//	md := r.Page(blocks, layout.TableRegions(raw))
//
// A block that overlaps a table region is replaced by that table, which is
// emitted once at the position of the first such block. Other blocks
// become text fragments keyed at their vertical centre. Tables that never
// matched a block are appended at the end of the page.
package layout

// Package model provides the intermediate representation shared by the
// decoder, the table-detection engine and the page reconstructor.
//
// All coordinates use page space with a top-left origin: x grows to the
// right and y grows downward, in PDF points.
//
// # Text
//
// Decoded text arrives as a hierarchy of [TextBlock] values, each holding
// [TextLine] values made of styled [TextRun] values. A block carries the
// bounding box used to order it on the page.
//
// # Tables
//
// A detected table is a [RawTable]: rows of optional [Cell] values and the
// bounding box of the whole region. Rows may have unequal lengths.
//
// # Geometry
//
//   - [BBox] - axis-aligned box with intersection, union and the asymmetric
//     overlap test used to attach text to table regions
//   - [Point] - 2D point
//   - [Word], [Ruling] and [PageGeometry] - the raw primitives handed to
//     table detectors
package model

package model

import "math"

// Word is a run of glyphs with no interior whitespace.
type Word struct {
	Text string
	BBox BBox
}

// Ruling is a drawn line segment, usually an edge of a filled or stroked
// rectangle.
type Ruling struct {
	Start Point
	End   Point
}

// IsHorizontal reports whether the segment is horizontal within tol
func (r Ruling) IsHorizontal(tol float64) bool {
	return math.Abs(r.Start.Y-r.End.Y) <= tol
}

// IsVertical reports whether the segment is vertical within tol
func (r Ruling) IsVertical(tol float64) bool {
	return math.Abs(r.Start.X-r.End.X) <= tol
}

// Length returns the segment length
func (r Ruling) Length() float64 {
	return r.Start.Distance(r.End)
}

// PageGeometry holds the raw primitives of one page used for table
// detection.
type PageGeometry struct {
	Width   float64
	Height  float64
	Words   []Word
	Rulings []Ruling
}

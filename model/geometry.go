package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox is an axis-aligned rectangle in top-left origin page space.
// A well-formed box has X1 >= X0 and Y1 >= Y0.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from two corners, normalizing their order.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

// MidY returns the vertical center of the box.
func (b BBox) MidY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Area returns the area of the box, or 0 for degenerate boxes.
func (b BBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsEmpty reports whether the box has zero area
func (b BBox) IsEmpty() bool {
	return b.Area() == 0
}

// Contains reports whether the point lies inside the box (edges inclusive)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 && p.Y >= b.Y0 && p.Y <= b.Y1
}

// Intersection returns the overlapping rectangle of two boxes and whether
// it has positive width and height. Boxes that only share an edge do not
// intersect.
func (b BBox) Intersection(other BBox) (BBox, bool) {
	ix := BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
	if ix.X1 <= ix.X0 || ix.Y1 <= ix.Y0 {
		return BBox{}, false
	}
	return ix, true
}

// Intersects reports whether the two boxes overlap with positive area
func (b BBox) Intersects(other BBox) bool {
	_, ok := b.Intersection(other)
	return ok
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// OverlapRatio returns the intersection area divided by the area of b.
// The ratio is asymmetric: it measures how much of b lies inside region.
func (b BBox) OverlapRatio(region BBox) float64 {
	ix, ok := b.Intersection(region)
	if !ok {
		return 0
	}
	area := b.Area()
	if area <= 0 {
		return 0
	}
	return ix.Area() / area
}

// BelongsTo reports whether at least threshold of b's own area lies inside
// region. Degenerate boxes never belong to anything.
func (b BBox) BelongsTo(region BBox, threshold float64) bool {
	ix, ok := b.Intersection(region)
	if !ok {
		return false
	}
	area := b.Area()
	return area > 0 && ix.Area()/area >= threshold
}

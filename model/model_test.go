package model

import (
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p1.Distance(tt.p2)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNewBBoxNormalizes(t *testing.T) {
	b := NewBBox(10, 50, 0, 20)
	want := BBox{X0: 0, Y0: 20, X1: 10, Y1: 50}
	if b != want {
		t.Errorf("NewBBox() = %+v, want %+v", b, want)
	}
	if b.Width() != 10 || b.Height() != 30 {
		t.Errorf("Width/Height = %v/%v, want 10/30", b.Width(), b.Height())
	}
}

func TestBBoxArea(t *testing.T) {
	tests := []struct {
		name string
		box  BBox
		want float64
	}{
		{"unit", BBox{0, 0, 1, 1}, 1},
		{"rect", BBox{10, 20, 30, 25}, 100},
		{"zero width", BBox{5, 0, 5, 10}, 0},
		{"inverted", BBox{10, 10, 0, 0}, 0},
	}
	for _, tt := range tests {
		if got := tt.box.Area(); got != tt.want {
			t.Errorf("%s: Area() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBBoxIntersection(t *testing.T) {
	a := BBox{0, 0, 10, 10}

	ix, ok := a.Intersection(BBox{5, 5, 15, 15})
	if !ok || ix != (BBox{5, 5, 10, 10}) {
		t.Errorf("Intersection() = %+v, %v, want {5 5 10 10}, true", ix, ok)
	}

	if _, ok := a.Intersection(BBox{10, 0, 20, 10}); ok {
		t.Error("boxes sharing an edge should not intersect")
	}
	if _, ok := a.Intersection(BBox{20, 20, 30, 30}); ok {
		t.Error("disjoint boxes should not intersect")
	}
}

func TestBBoxUnion(t *testing.T) {
	got := BBox{0, 0, 5, 5}.Union(BBox{3, -2, 8, 4})
	want := BBox{0, -2, 8, 5}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestBBoxBelongsTo(t *testing.T) {
	region := BBox{0, 0, 100, 100}
	tests := []struct {
		name string
		box  BBox
		want bool
	}{
		{"fully inside small", BBox{10, 10, 11, 11}, true},
		{"fully inside large", BBox{0, 0, 100, 100}, true},
		{"edge contact only", BBox{100, 0, 200, 100}, false},
		{"corner contact only", BBox{100, 100, 110, 110}, false},
		{"exactly thirty percent", BBox{70, 0, 170, 100}, true},
		{"just under thirty percent", BBox{70.1, 0, 170.1, 100}, false},
		{"degenerate", BBox{10, 10, 10, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.BelongsTo(region, 0.3); got != tt.want {
				t.Errorf("BelongsTo() = %v, want %v (ratio %v)", got, tt.want, tt.box.OverlapRatio(region))
			}
		})
	}
}

func TestBBoxBelongsToIsAsymmetric(t *testing.T) {
	small := BBox{10, 10, 20, 20}
	large := BBox{0, 0, 1000, 1000}
	if !small.BelongsTo(large, 0.3) {
		t.Error("small box inside large region should belong to it")
	}
	if large.BelongsTo(small, 0.3) {
		t.Error("large box should not belong to a small region it covers")
	}
}

func TestBBoxBelongsToScaleInvariant(t *testing.T) {
	for _, scale := range []float64{0.001, 1, 1000} {
		region := BBox{0, 0, 10 * scale, 10 * scale}
		inner := BBox{2 * scale, 2 * scale, 3 * scale, 3 * scale}
		if !inner.BelongsTo(region, 0.3) {
			t.Errorf("scale %v: contained box should belong", scale)
		}
	}
}

func TestStyleFlags(t *testing.T) {
	tests := []struct {
		flags  StyleFlags
		bold   bool
		italic bool
		str    string
	}{
		{0, false, false, "regular"},
		{16, true, false, "bold"},
		{2, false, true, "italic"},
		{18, true, true, "bold|italic"},
		{4, false, false, "regular"},
	}
	for _, tt := range tests {
		if tt.flags.Bold() != tt.bold || tt.flags.Italic() != tt.italic {
			t.Errorf("StyleFlags(%d) bold=%v italic=%v, want %v %v", tt.flags, tt.flags.Bold(), tt.flags.Italic(), tt.bold, tt.italic)
		}
		if got := tt.flags.String(); got != tt.str {
			t.Errorf("StyleFlags(%d).String() = %q, want %q", tt.flags, got, tt.str)
		}
	}
}

func TestTextBlockText(t *testing.T) {
	b := TextBlock{Lines: []TextLine{
		{Runs: []TextRun{{Text: "Hello "}, {Text: "world"}}},
		{Runs: []TextRun{{Text: "again"}}},
	}}
	if got := b.Text(); got != "Hello world\nagain" {
		t.Errorf("Text() = %q", got)
	}
	if n := len(b.Runs()); n != 3 {
		t.Errorf("Runs() len = %d, want 3", n)
	}
}

func TestRawTableShape(t *testing.T) {
	tbl := RawTable{Rows: RowsFromStrings([]string{"a", "b", "c"}, []string{"d"})}
	if tbl.RowCount() != 2 || tbl.ColCount() != 3 {
		t.Errorf("shape = %dx%d, want 2x3", tbl.RowCount(), tbl.ColCount())
	}
	empty := NewRawTable(2, 2)
	if empty.Rows[1][1].Valid {
		t.Error("NewRawTable cells should be absent")
	}
}

func TestRuling(t *testing.T) {
	h := Ruling{Start: Point{0, 10}, End: Point{50, 10.5}}
	if !h.IsHorizontal(1) || h.IsVertical(1) {
		t.Error("expected horizontal ruling")
	}
	v := Ruling{Start: Point{3, 0}, End: Point{3, 40}}
	if !v.IsVertical(0.5) || v.Length() != 40 {
		t.Errorf("vertical ruling: IsVertical=%v Length=%v", v.IsVertical(0.5), v.Length())
	}
}

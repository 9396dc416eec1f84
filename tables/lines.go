package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabmark/model"
)

// LineDetector detects ruled tables from drawn horizontal and vertical
// rulings. Each connected group of rulings is one table candidate.
type LineDetector struct {
	config Config
}

// NewLineDetector creates a line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("lines").
func (d *LineDetector) Name() string {
	return "lines"
}

// Configure sets the detector configuration.
func (d *LineDetector) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// GridHypothesis represents a table grid built from one ruling component
type GridHypothesis struct {
	// Bounding box of the grid
	BBox model.BBox

	// Row boundaries (Y coordinates, ascending top to bottom)
	HorizontalLines []float64

	// Column boundaries (X coordinates, ascending left to right)
	VerticalLines []float64

	horizontals []model.Ruling
	verticals   []model.Ruling
}

// Rows returns the number of grid rows
func (h *GridHypothesis) Rows() int { return len(h.HorizontalLines) - 1 }

// Cols returns the number of grid columns
func (h *GridHypothesis) Cols() int { return len(h.VerticalLines) - 1 }

// Detect finds ruled tables on a page, ordered top to bottom.
func (d *LineDetector) Detect(page *model.PageGeometry) ([]model.RawTable, error) {
	if page == nil || len(page.Rulings) == 0 {
		return nil, nil
	}

	var tables []model.RawTable
	for _, grid := range d.DetectGrids(page.Rulings) {
		table, ok := d.fillGrid(grid, page.Words)
		if ok {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

// DetectGrids returns one grid hypothesis per connected ruling component
// large enough to form a table.
func (d *LineDetector) DetectGrids(rulings []model.Ruling) []*GridHypothesis {
	horizontals, verticals := d.classify(rulings)
	if len(horizontals) < 2 || len(verticals) < 2 {
		return nil
	}

	var grids []*GridHypothesis
	for _, comp := range d.components(horizontals, verticals) {
		if grid := d.buildGrid(comp.horizontals, comp.verticals); grid != nil {
			grids = append(grids, grid)
		}
	}

	sort.SliceStable(grids, func(i, j int) bool {
		if grids[i].BBox.Y0 != grids[j].BBox.Y0 {
			return grids[i].BBox.Y0 < grids[j].BBox.Y0
		}
		return grids[i].BBox.X0 < grids[j].BBox.X0
	})
	return grids
}

// classify splits rulings into horizontal and vertical segments, dropping
// diagonal and short ones. Segments are normalized so Start is the
// top/left end.
func (d *LineDetector) classify(rulings []model.Ruling) (horizontals, verticals []model.Ruling) {
	for _, r := range rulings {
		if r.Length() < d.config.MinRulingLength {
			continue
		}
		switch {
		case r.IsHorizontal(d.config.RulingTolerance):
			y := (r.Start.Y + r.End.Y) / 2
			x0, x1 := math.Min(r.Start.X, r.End.X), math.Max(r.Start.X, r.End.X)
			horizontals = append(horizontals, model.Ruling{Start: model.Point{X: x0, Y: y}, End: model.Point{X: x1, Y: y}})
		case r.IsVertical(d.config.RulingTolerance):
			x := (r.Start.X + r.End.X) / 2
			y0, y1 := math.Min(r.Start.Y, r.End.Y), math.Max(r.Start.Y, r.End.Y)
			verticals = append(verticals, model.Ruling{Start: model.Point{X: x, Y: y0}, End: model.Point{X: x, Y: y1}})
		}
	}
	return horizontals, verticals
}

type rulingComponent struct {
	horizontals []model.Ruling
	verticals   []model.Ruling
}

// components groups rulings that touch each other (within the alignment
// tolerance) using union-find. Components keep first-seen order.
func (d *LineDetector) components(horizontals, verticals []model.Ruling) []rulingComponent {
	n := len(horizontals) + len(verticals)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	tol := d.config.AlignmentTolerance
	for i, h := range horizontals {
		for j, v := range verticals {
			if v.Start.X >= h.Start.X-tol && v.Start.X <= h.End.X+tol &&
				h.Start.Y >= v.Start.Y-tol && h.Start.Y <= v.End.Y+tol {
				union(i, len(horizontals)+j)
			}
		}
	}

	index := make(map[int]int)
	var comps []rulingComponent
	slot := func(i int) *rulingComponent {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(comps)
			index[root] = k
			comps = append(comps, rulingComponent{})
		}
		return &comps[k]
	}
	for i, h := range horizontals {
		c := slot(i)
		c.horizontals = append(c.horizontals, h)
	}
	for j, v := range verticals {
		c := slot(len(horizontals) + j)
		c.verticals = append(c.verticals, v)
	}
	return comps
}

// buildGrid clusters aligned ruling positions into grid boundaries.
func (d *LineDetector) buildGrid(horizontals, verticals []model.Ruling) *GridHypothesis {
	if len(horizontals) < 2 || len(verticals) < 2 {
		return nil
	}

	ys := make([]float64, len(horizontals))
	for i, h := range horizontals {
		ys[i] = h.Start.Y
	}
	xs := make([]float64, len(verticals))
	for i, v := range verticals {
		xs[i] = v.Start.X
	}
	sort.Float64s(ys)
	sort.Float64s(xs)
	ys = clusterPositions(ys, d.config.AlignmentTolerance)
	xs = clusterPositions(xs, d.config.AlignmentTolerance)

	grid := &GridHypothesis{
		HorizontalLines: ys,
		VerticalLines:   xs,
		horizontals:     horizontals,
		verticals:       verticals,
	}
	if grid.Rows() < d.config.MinRows || grid.Cols() < d.config.MinCols {
		return nil
	}
	grid.BBox = model.BBox{X0: xs[0], Y0: ys[0], X1: xs[len(xs)-1], Y1: ys[len(ys)-1]}
	return grid
}

// clusterPositions merges sorted values closer than tolerance, averaging
// each cluster.
func clusterPositions(sorted []float64, tolerance float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}

	var out []float64
	sum, count := sorted[0], 1.0
	for _, v := range sorted[1:] {
		if v-sum/count <= tolerance {
			sum += v
			count++
			continue
		}
		out = append(out, sum/count)
		sum, count = v, 1
	}
	return append(out, sum/count)
}

// hasVertical reports whether a vertical ruling at x crosses y.
func (d *LineDetector) hasVertical(grid *GridHypothesis, x, y float64) bool {
	tol := d.config.AlignmentTolerance
	for _, v := range grid.verticals {
		if math.Abs(v.Start.X-x) <= tol && y >= v.Start.Y-tol && y <= v.End.Y+tol {
			return true
		}
	}
	return false
}

// hasHorizontal reports whether a horizontal ruling at y crosses x.
func (d *LineDetector) hasHorizontal(grid *GridHypothesis, x, y float64) bool {
	tol := d.config.AlignmentTolerance
	for _, h := range grid.horizontals {
		if math.Abs(h.Start.Y-y) <= tol && x >= h.Start.X-tol && x <= h.End.X+tol {
			return true
		}
	}
	return false
}

// anchor returns the top-left cell of the span containing (row, col).
// Without merged cell detection every cell anchors itself.
func (d *LineDetector) anchor(grid *GridHypothesis, row, col int) (int, int) {
	if !d.config.DetectMergedCells {
		return row, col
	}
	ys, xs := grid.HorizontalLines, grid.VerticalLines

	midY := (ys[row] + ys[row+1]) / 2
	for col > 0 && !d.hasVertical(grid, xs[col], midY) {
		col--
	}
	midX := (xs[col] + xs[col+1]) / 2
	for row > 0 && !d.hasHorizontal(grid, midX, ys[row]) {
		row--
	}
	return row, col
}

// fillGrid assigns words to grid cells by their centre point. Spanned
// positions are absent; the span's text lives in its anchor cell. Grids
// holding no text are rejected.
func (d *LineDetector) fillGrid(grid *GridHypothesis, words []model.Word) (model.RawTable, bool) {
	rows, cols := grid.Rows(), grid.Cols()
	texts := make([][]strings.Builder, rows)
	present := make([][]bool, rows)
	for r := 0; r < rows; r++ {
		texts[r] = make([]strings.Builder, cols)
		present[r] = make([]bool, cols)
		for c := 0; c < cols; c++ {
			ar, ac := d.anchor(grid, r, c)
			present[r][c] = ar == r && ac == c
		}
	}

	assigned := 0
	for _, w := range words {
		r, c := findCell(w.BBox.Center(), grid.HorizontalLines, grid.VerticalLines)
		if r < 0 || c < 0 {
			continue
		}
		r, c = d.anchor(grid, r, c)
		sb := &texts[r][c]
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
		assigned++
	}
	if assigned == 0 {
		return model.RawTable{}, false
	}

	table := model.NewRawTable(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if present[r][c] {
				table.Rows[r][c] = model.NewCell(texts[r][c].String())
			}
		}
	}
	table.BBox = grid.BBox
	table.Detector = d.Name()
	table.Confidence = d.borderCoverage(grid)
	return table, true
}

// borderCoverage is the fraction of the four outer borders that are ruled.
func (d *LineDetector) borderCoverage(grid *GridHypothesis) float64 {
	b := grid.BBox
	midX := (b.X0 + b.X1) / 2
	midY := (b.Y0 + b.Y1) / 2
	score := 0.0
	if d.hasHorizontal(grid, midX, b.Y0) {
		score += 0.25
	}
	if d.hasHorizontal(grid, midX, b.Y1) {
		score += 0.25
	}
	if d.hasVertical(grid, b.X0, midY) {
		score += 0.25
	}
	if d.hasVertical(grid, b.X1, midY) {
		score += 0.25
	}
	return score
}

// findCell returns the row and column of the cell containing p given
// ascending boundaries, or -1 for both when p lies outside the grid.
func findCell(p model.Point, ys, xs []float64) (row, col int) {
	row, col = -1, -1
	for i := 0; i+1 < len(ys); i++ {
		if p.Y >= ys[i] && p.Y <= ys[i+1] {
			row = i
			break
		}
	}
	for i := 0; i+1 < len(xs); i++ {
		if p.X >= xs[i] && p.X <= xs[i+1] {
			col = i
			break
		}
	}
	if row < 0 || col < 0 {
		return -1, -1
	}
	return row, col
}

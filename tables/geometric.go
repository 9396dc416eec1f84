package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabmark/model"
)

// TextDetector implements table detection using geometric heuristics.
// It finds runs of consecutive text rows that split into several
// whitespace-separated columns and scores the resulting grid for
// regularity, alignment, visible lines and occupancy.
type TextDetector struct {
	config Config
}

// NewTextDetector creates a new text detector with default configuration.
func NewTextDetector() *TextDetector {
	return &TextDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("text").
func (d *TextDetector) Name() string {
	return "text"
}

// Configure sets the detector configuration.
func (d *TextDetector) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// textRow is a group of words sharing a vertical band, sorted left to right.
type textRow struct {
	words []model.Word
	bbox  model.BBox
}

// textGrid holds ascending row and column boundaries plus the observed
// extent of every column.
type textGrid struct {
	rows     []float64
	cols     []float64
	colSpans [][2]float64
}

func (g *textGrid) rowCount() int { return len(g.rows) - 1 }
func (g *textGrid) colCount() int { return len(g.cols) - 1 }

// Detect finds text-aligned tables on a page, ordered top to bottom.
func (d *TextDetector) Detect(page *model.PageGeometry) ([]model.RawTable, error) {
	if page == nil || len(page.Words) == 0 {
		return nil, nil
	}

	rows := d.buildRows(page.Words)

	var tables []model.RawTable
	for _, cluster := range d.clusterRows(rows) {
		if table, ok := d.detectTableInCluster(cluster, page.Rulings); ok {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

// buildRows groups words whose vertical centres fall inside the band of
// the current row.
func (d *TextDetector) buildRows(words []model.Word) []textRow {
	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.MidY() < sorted[j].BBox.MidY()
	})

	var rows []textRow
	for _, w := range sorted {
		if n := len(rows); n > 0 {
			cur := &rows[n-1]
			mid := w.BBox.MidY()
			if mid >= cur.bbox.Y0 && mid <= cur.bbox.Y1 {
				cur.words = append(cur.words, w)
				cur.bbox = cur.bbox.Union(w.BBox)
				continue
			}
		}
		rows = append(rows, textRow{words: []model.Word{w}, bbox: w.BBox})
	}

	for i := range rows {
		ws := rows[i].words
		sort.SliceStable(ws, func(a, b int) bool { return ws[a].BBox.X0 < ws[b].BBox.X0 })
	}
	return rows
}

// segments counts whitespace-separated groups of words in a row.
func (d *TextDetector) segments(row textRow) int {
	if len(row.words) == 0 {
		return 0
	}
	n := 1
	right := row.words[0].BBox.X1
	for _, w := range row.words[1:] {
		if w.BBox.X0-right >= d.config.MinColumnGap {
			n++
		}
		right = math.Max(right, w.BBox.X1)
	}
	return n
}

// clusterRows returns maximal runs of consecutive multi-column rows
// separated by no more than MaxRowGap.
func (d *TextDetector) clusterRows(rows []textRow) [][]textRow {
	var clusters [][]textRow
	var current []textRow

	flush := func() {
		if len(current) >= d.config.MinRows {
			clusters = append(clusters, current)
		}
		current = nil
	}

	for _, row := range rows {
		if d.segments(row) < d.config.MinCols {
			flush()
			continue
		}
		if n := len(current); n > 0 && row.bbox.Y0-current[n-1].bbox.Y1 > d.config.MaxRowGap {
			flush()
		}
		current = append(current, row)
	}
	flush()
	return clusters
}

// detectTableInCluster builds a grid for the cluster, scores it and fills
// its cells.
func (d *TextDetector) detectTableInCluster(cluster []textRow, lines []model.Ruling) (model.RawTable, bool) {
	grid := d.buildGrid(cluster)
	if grid == nil || grid.rowCount() < d.config.MinRows || grid.colCount() < d.config.MinCols {
		return model.RawTable{}, false
	}

	var words []model.Word
	for _, row := range cluster {
		words = append(words, row.words...)
	}

	table, wordsPerCell := d.assignWordsToCells(grid, words)
	if wordsPerCell > d.config.MaxCellWords {
		return model.RawTable{}, false
	}

	confidence := d.calculateConfidence(grid, words, lines)
	if confidence < d.config.MinConfidence {
		return model.RawTable{}, false
	}

	table.BBox = model.BBox{
		X0: grid.cols[0],
		Y0: grid.rows[0],
		X1: grid.cols[len(grid.cols)-1],
		Y1: grid.rows[len(grid.rows)-1],
	}
	table.Confidence = confidence
	table.Detector = d.Name()
	return table, true
}

// buildGrid derives row boundaries from the gaps between rows and column
// boundaries from whitespace gutters in the cluster's horizontal projection.
func (d *TextDetector) buildGrid(cluster []textRow) *textGrid {
	grid := &textGrid{}

	grid.rows = append(grid.rows, cluster[0].bbox.Y0)
	for i := 1; i < len(cluster); i++ {
		grid.rows = append(grid.rows, (cluster[i-1].bbox.Y1+cluster[i].bbox.Y0)/2)
	}
	grid.rows = append(grid.rows, cluster[len(cluster)-1].bbox.Y1)

	var spans [][2]float64
	for _, row := range cluster {
		for _, w := range row.words {
			spans = append(spans, [2]float64{w.BBox.X0, w.BBox.X1})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	merged := [][2]float64{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s[0]-last[1] < d.config.MinColumnGap {
			last[1] = math.Max(last[1], s[1])
			continue
		}
		merged = append(merged, s)
	}
	if len(merged) < d.config.MinCols {
		return nil
	}

	grid.colSpans = merged
	grid.cols = append(grid.cols, merged[0][0])
	for i := 1; i < len(merged); i++ {
		grid.cols = append(grid.cols, (merged[i-1][1]+merged[i][0])/2)
	}
	grid.cols = append(grid.cols, merged[len(merged)-1][1])
	return grid
}

// calculateConfidence computes a confidence score (0.0-1.0) for the detected table.
// The score combines grid regularity (30%), alignment quality (30%), line presence (20%),
// and cell occupancy (20%).
func (d *TextDetector) calculateConfidence(grid *textGrid, words []model.Word, lines []model.Ruling) float64 {
	score := 0.0
	score += d.calculateGridRegularity(grid) * 0.3
	score += d.calculateAlignmentQuality(words, grid) * 0.3
	score += d.calculateLineScore(grid, lines) * 0.2
	score += d.calculateCellOccupancy(words, grid) * 0.2
	return score
}

// calculateGridRegularity scores the coefficient of variation of row
// heights. Column widths vary legitimately in text tables and are ignored.
func (d *TextDetector) calculateGridRegularity(grid *textGrid) float64 {
	heights := make([]float64, grid.rowCount())
	for i := range heights {
		heights[i] = grid.rows[i+1] - grid.rows[i]
	}
	m := mean(heights)
	if m == 0 {
		return 0
	}
	return math.Max(0, 1-math.Sqrt(variance(heights))/m)
}

// calculateAlignmentQuality measures the fraction of words that are left,
// right or centre aligned with the column they fall in.
func (d *TextDetector) calculateAlignmentQuality(words []model.Word, grid *textGrid) float64 {
	if len(words) == 0 {
		return 0
	}

	tol := d.config.AlignmentTolerance * 2
	aligned := 0
	for _, w := range words {
		_, col := findCell(w.BBox.Center(), grid.rows, grid.cols)
		if col < 0 {
			continue
		}
		span := grid.colSpans[col]
		left := math.Abs(w.BBox.X0-span[0]) < tol
		right := math.Abs(w.BBox.X1-span[1]) < tol
		centre := math.Abs(w.BBox.Center().X-(span[0]+span[1])/2) < tol
		if left || right || centre {
			aligned++
		}
	}
	return float64(aligned) / float64(len(words))
}

// calculateLineScore measures the fraction of row boundaries that have a
// visible horizontal ruling nearby.
func (d *TextDetector) calculateLineScore(grid *textGrid, lines []model.Ruling) float64 {
	if len(lines) == 0 {
		return 0
	}
	found := 0
	for _, y := range grid.rows {
		for _, l := range lines {
			if l.IsHorizontal(d.config.AlignmentTolerance) && math.Abs(l.Start.Y-y) < d.config.AlignmentTolerance*2 {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(grid.rows))
}

// calculateCellOccupancy measures the fraction of grid cells that contain
// at least one word.
func (d *TextDetector) calculateCellOccupancy(words []model.Word, grid *textGrid) float64 {
	occupied := make(map[[2]int]bool)
	for _, w := range words {
		r, c := findCell(w.BBox.Center(), grid.rows, grid.cols)
		if r >= 0 {
			occupied[[2]int{r, c}] = true
		}
	}
	total := grid.rowCount() * grid.colCount()
	if total == 0 {
		return 0
	}
	return float64(len(occupied)) / float64(total)
}

// assignWordsToCells places each word into the cell holding its centre.
// Words in the same cell are joined with spaces; cells without words are
// absent. It also returns the mean word count of occupied cells.
func (d *TextDetector) assignWordsToCells(grid *textGrid, words []model.Word) (model.RawTable, float64) {
	rows, cols := grid.rowCount(), grid.colCount()
	parts := make([][][]string, rows)
	for r := range parts {
		parts[r] = make([][]string, cols)
	}

	for _, w := range words {
		r, c := findCell(w.BBox.Center(), grid.rows, grid.cols)
		if r < 0 {
			continue
		}
		parts[r][c] = append(parts[r][c], w.Text)
	}

	table := model.NewRawTable(rows, cols)
	occupied, total := 0, 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if len(parts[r][c]) == 0 {
				continue
			}
			table.Rows[r][c] = model.NewCell(strings.Join(parts[r][c], " "))
			occupied++
			total += len(parts[r][c])
		}
	}
	if occupied == 0 {
		return table, 0
	}
	return table, float64(total) / float64(occupied)
}

// Utility functions

// mean computes the arithmetic mean of a slice of float64 values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance computes the population variance of a slice of float64 values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}

package model

// Cell is an optional table cell value. The zero Cell is absent.
type Cell struct {
	Text  string
	Valid bool
}

// NewCell returns a present cell holding text
func NewCell(text string) Cell {
	return Cell{Text: text, Valid: true}
}

// Absent returns a cell with no value, as produced for spanned positions
func Absent() Cell {
	return Cell{}
}

// RawTable is a detected table: rows of optional cells and the bounding box
// of the whole region. Rows may have unequal lengths.
type RawTable struct {
	BBox BBox
	Rows [][]Cell

	// Confidence is the detector's score in [0, 1].
	Confidence float64

	// Detector names the detector that produced the table.
	Detector string
}

// RowCount returns the number of rows
func (t RawTable) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the length of the longest row
func (t RawTable) ColCount() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// NewRawTable creates a table of rows x cols absent cells
func NewRawTable(rows, cols int) RawTable {
	t := RawTable{Rows: make([][]Cell, rows)}
	for i := range t.Rows {
		t.Rows[i] = make([]Cell, cols)
	}
	return t
}

// RowsFromStrings builds present cells from plain strings
func RowsFromStrings(rows ...[]string) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		out[i] = make([]Cell, len(row))
		for j, s := range row {
			out[i][j] = NewCell(s)
		}
	}
	return out
}

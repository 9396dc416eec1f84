package tables

import (
	"strings"

	"github.com/tsawler/tabmark/model"
)

var cellReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"|", `\|`,
)

// ToMarkdown renders rows as a Markdown pipe table. The first row becomes
// the header. It returns "" when there are no rows or the first row is
// empty.
func ToMarkdown(rows [][]model.Cell) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString(" |")
	}

	for i, row := range rows {
		cells := make([]string, cols)
		for j := range cells {
			if j < len(row) {
				cells[j] = sanitizeCell(row[j])
			}
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeRow(cells)

		if i == 0 {
			sep := make([]string, cols)
			for j := range sep {
				sep[j] = "---"
			}
			sb.WriteByte('\n')
			writeRow(sep)
		}
	}

	return sb.String()
}

// sanitizeCell flattens a cell to single-line, pipe-safe text.
func sanitizeCell(c model.Cell) string {
	if !c.Valid {
		return ""
	}
	return strings.TrimSpace(cellReplacer.Replace(c.Text))
}

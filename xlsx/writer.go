// Package xlsx exports detected tables to an XLSX workbook, one sheet per
// table.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabmark/model"
)

// EmptySheet names the only sheet of a workbook written without tables.
const EmptySheet = "Tables"

// Table is one table to export.
type Table struct {
	// Page is the 1-based page the table was found on.
	Page int

	// Index is the 1-based position of the table on its page.
	Index int

	Rows [][]model.Cell
}

// SheetName returns the sheet name used for t, e.g. "p3_t1".
func (t Table) SheetName() string {
	return fmt.Sprintf("p%d_t%d", t.Page, t.Index)
}

// Write encodes tables as a workbook to w. Absent cells are left empty.
func Write(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(0)
	if len(tables) == 0 {
		if err := f.SetSheetName(first, EmptySheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for i, t := range tables {
		name := t.SheetName()
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeRows(f, name, t.Rows); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]model.Cell) error {
	for r, row := range rows {
		for c, cell := range row {
			if !cell.Valid {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, ref, cell.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tabmark/model"
)

func readBack(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteTables(t *testing.T) {
	first := model.RowsFromStrings([]string{"Name", "Age"}, []string{"Ann", "42"})
	second := [][]model.Cell{
		{model.NewCell("Region"), model.NewCell("Q1"), model.NewCell("Q2")},
		{model.NewCell("North"), model.Absent(), model.NewCell("7")},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Table{
		{Page: 1, Index: 1, Rows: first},
		{Page: 3, Index: 2, Rows: second},
	}))

	f := readBack(t, buf.Bytes())
	assert.Equal(t, []string{"p1_t1", "p3_t2"}, f.GetSheetList())

	rows, err := f.GetRows("p1_t1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Ann", "42"}}, rows)

	v, err := f.GetCellValue("p3_t2", "B2")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = f.GetCellValue("p3_t2", "C2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestWriteNoTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	f := readBack(t, buf.Bytes())
	assert.Equal(t, []string{EmptySheet}, f.GetSheetList())

	rows, err := f.GetRows(EmptySheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "p12_t3", Table{Page: 12, Index: 3}.SheetName())
}

package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"oect/internal/merge"

	"github.com/xuri/excelize/v2"
)

const XlsxDataSheetName = "Data"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

// createXlsxTable lays the table out like the CSV: a bold header row, the time
// in column A, one column per series. Gaps are left as empty cells.
func createXlsxTable(table *merge.MergedTable) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := XlsxDataSheetName
	_ = f.SetSheetName("Sheet1", sheetName)
	_ = f.SetColWidth(sheetName, "A", "A", 12)
	if len(table.Columns) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(table.Columns) + 1)
		_ = f.SetColWidth(sheetName, "B", lastCol, 25)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	row := 1
	for col, heading := range headerRow(table) {
		_ = f.SetCellValue(sheetName, cellName(col+1, row), heading)
		_ = f.SetCellStyle(sheetName, cellName(col+1, row), cellName(col+1, row), headerStyle)
	}
	row++
	for tableRow, t := range table.Times {
		if err = f.SetCellFloat(sheetName, cellName(1, row), t, -1, 64); err != nil {
			err = fmt.Errorf("failed to set time cell on row %d: %w", row, err)
			return
		}
		for col := range table.Columns {
			v, ok := table.Value(tableRow, col)
			if !ok {
				continue
			}
			if err = f.SetCellFloat(sheetName, cellName(col+2, row), v, -1, 64); err != nil {
				err = fmt.Errorf("failed to set cell on row %d: %w", row, err)
				return
			}
		}
		row++
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		err = fmt.Errorf("failed to write xlsx table to buffer: %v", err)
		return
	}
	out = buf.Bytes()
	return
}

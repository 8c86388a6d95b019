package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"oect/internal/merge"
)

// createCsvTable writes a header row and one row per time value. Cells where a
// series has no sample are left empty.
func createCsvTable(table *merge.MergedTable) (out []byte, err error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err = writer.Write(headerRow(table)); err != nil {
		err = fmt.Errorf("failed to write csv header: %w", err)
		return
	}
	record := make([]string, len(table.Columns)+1)
	for row, t := range table.Times {
		record[0] = formatValue(t)
		for col := range table.Columns {
			record[col+1] = ""
			if v, ok := table.Value(row, col); ok {
				record[col+1] = formatValue(v)
			}
		}
		if err = writer.Write(record); err != nil {
			err = fmt.Errorf("failed to write csv row %d: %w", row+1, err)
			return
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		err = fmt.Errorf("failed to flush csv: %w", err)
		return
	}
	out = buf.Bytes()
	return
}

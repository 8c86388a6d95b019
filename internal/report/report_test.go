package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"oect/internal/logfile"
	"oect/internal/merge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSeries(label string, times []float64, values []float64) logfile.Series {
	s := logfile.Series{Label: label}
	for i := range times {
		s.Samples = append(s.Samples, logfile.Sample{Time: times[i], DrainCurrent: values[i]})
	}
	return s
}

func newTestTable(t *testing.T) *merge.MergedTable {
	table, err := merge.Merge(
		newSeries("a.txt", []float64{0.1, 0.2}, []float64{-450, -449.5}),
		newSeries("b.txt", []float64{0.2, 0.3}, []float64{12.25, 1e-7}),
	)
	require.NoError(t, err)
	return table
}

func readCsv(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTableCsv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, WriteTable(newTestTable(t), path))

	assert.Equal(t, [][]string{
		{"Time", "a.txt", "b.txt"},
		{"0.1", "-450", ""},
		{"0.2", "-449.5", "12.25"},
		{"0.3", "", "1e-07"},
	}, readCsv(t, path))
}

func TestWriteTableEmptyIsHeaderOnly(t *testing.T) {
	dir := t.TempDir()

	empty, err := merge.Merge()
	require.NoError(t, err)
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, WriteTable(empty, path))
	assert.Equal(t, [][]string{{"Time"}}, readCsv(t, path))

	noRows, err := merge.Merge(logfile.Series{Label: "short.txt"})
	require.NoError(t, err)
	path = filepath.Join(dir, "norows.csv")
	require.NoError(t, WriteTable(noRows, path))
	assert.Equal(t, [][]string{{"Time", "short.txt"}}, readCsv(t, path))
}

func TestWriteTableOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,content\n1,2\n3,4\n5,6\n7,8\n9,10\n"), 0644))
	require.NoError(t, WriteTable(newTestTable(t), path))
	assert.Len(t, readCsv(t, path), 4)
}

func TestWriteTableXlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.xlsx")
	require.NoError(t, WriteTable(newTestTable(t), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(XlsxDataSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Time", "a.txt", "b.txt"}, rows[0])
	assert.Equal(t, "0.1", rows[1][0])
	assert.Equal(t, "-450", rows[1][1])
	assert.Len(t, rows[1], 2, "gap cell in the last column is not written")
	require.Len(t, rows[3], 3)
	assert.Equal(t, "0.3", rows[3][0])
	assert.Equal(t, "", rows[3][1])
	v, err := strconv.ParseFloat(rows[3][2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1e-7, v, 1e-12)
}

func TestWriteTableExportError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "output.csv")
	err := WriteTable(newTestTable(t), path)
	require.Error(t, err)
	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, path, exportErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWritePlotFormats(t *testing.T) {
	dir := t.TempDir()
	table := newTestTable(t)
	tests := []struct {
		name   string
		file   string
		marker []byte
	}{
		{"png", "output.png", []byte("\x89PNG")},
		{"unknown extension falls back to png", "output.img", []byte("\x89PNG")},
		{"svg", "output.svg", []byte("<svg")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, WritePlot(table, path))
			out, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.Contains(out[:min(len(out), 512)], tt.marker), "missing %q near start of file", tt.marker)
		})
	}
}

func TestWritePlotHtml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.html")
	require.NoError(t, WritePlot(newTestTable(t), path))
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "a.txt")
	assert.Contains(t, html, "b.txt")
	assert.Contains(t, html, PlotYAxisLabel)
}

func TestWritePlotSinglePoint(t *testing.T) {
	table, err := merge.Merge(newSeries("one.txt", []float64{0.5}, []float64{3}))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, WritePlot(table, path))
}

func TestWritePlotNothingToPlot(t *testing.T) {
	table, err := merge.Merge(logfile.Series{Label: "empty.txt"})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "output.png")
	err = WritePlot(table, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNothingToPlot))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatsFromPath(t *testing.T) {
	assert.Equal(t, FormatCsv, TableFormat("output.csv"))
	assert.Equal(t, FormatCsv, TableFormat("output"))
	assert.Equal(t, FormatCsv, TableFormat("output.txt"))
	assert.Equal(t, FormatXlsx, TableFormat("/tmp/Output.XLSX"))
	assert.Equal(t, FormatPng, PlotFormat("output.png"))
	assert.Equal(t, FormatPng, PlotFormat("output.jpg"))
	assert.Equal(t, FormatSvg, PlotFormat("output.svg"))
	assert.Equal(t, FormatHtml, PlotFormat("output.html"))
	assert.Equal(t, FormatHtml, PlotFormat("output.htm"))
}

func TestCreateUnsupportedFormat(t *testing.T) {
	_, err := CreateTable("parquet", newTestTable(t))
	assert.Error(t, err)
	_, err = CreatePlot("gif", newTestTable(t))
	assert.Error(t, err)
}

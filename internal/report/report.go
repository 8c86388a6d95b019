// Package report renders a merged table to tabular files (CSV, xlsx) and its
// overlay plot to image or HTML files.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"oect/internal/merge"
)

// table formats
const (
	FormatCsv  = "csv"
	FormatXlsx = "xlsx"
)

// plot formats
const (
	FormatPng  = "png"
	FormatSvg  = "svg"
	FormatHtml = "html"
)

var TableFormats = []string{FormatCsv, FormatXlsx}
var PlotFormats = []string{FormatPng, FormatSvg, FormatHtml}

const (
	TimeColumnName = "Time"
	PlotXAxisLabel = "Time (s)"
	PlotYAxisLabel = "Normalized drain current (uA)"
)

// ErrNothingToPlot is returned when no column has any samples.
var ErrNothingToPlot = errors.New("no samples to plot")

// ExportError reports an output file that could not be produced.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// TableFormat returns the table format implied by the file extension.
// Anything other than .xlsx is written as CSV.
func TableFormat(path string) string {
	if formatFromExt(path) == FormatXlsx {
		return FormatXlsx
	}
	return FormatCsv
}

// PlotFormat returns the plot format implied by the file extension.
// Anything other than .svg or .html is rendered as PNG.
func PlotFormat(path string) string {
	format := formatFromExt(path)
	if slices.Contains(PlotFormats, format) {
		return format
	}
	return FormatPng
}

func formatFromExt(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "htm" {
		return FormatHtml
	}
	return ext
}

// CreateTable renders the table in the given format.
func CreateTable(format string, table *merge.MergedTable) (out []byte, err error) {
	switch format {
	case FormatCsv:
		return createCsvTable(table)
	case FormatXlsx:
		return createXlsxTable(table)
	}
	err = fmt.Errorf("unsupported table format: %s", format)
	return
}

// CreatePlot renders the overlay plot in the given format.
func CreatePlot(format string, table *merge.MergedTable) (out []byte, err error) {
	if !hasSamples(table) {
		err = ErrNothingToPlot
		return
	}
	switch format {
	case FormatPng, FormatSvg:
		return createChartPlot(format, table)
	case FormatHtml:
		return createHtmlPlot(table)
	}
	err = fmt.Errorf("unsupported plot format: %s", format)
	return
}

// WriteTable writes the table to path, choosing the format from the extension.
// Existing files are overwritten.
func WriteTable(table *merge.MergedTable, path string) error {
	format := TableFormat(path)
	out, err := CreateTable(format, table)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := writeFile(path, out); err != nil {
		return err
	}
	slog.Info("wrote table", slog.String("file", path), slog.String("format", format), slog.Int("rows", table.Rows()), slog.Int("columns", len(table.Columns)))
	return nil
}

// WritePlot renders one line per column to path, choosing the format from the
// extension. Existing files are overwritten.
func WritePlot(table *merge.MergedTable, path string) error {
	format := PlotFormat(path)
	out, err := CreatePlot(format, table)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := writeFile(path, out); err != nil {
		return err
	}
	slog.Info("wrote plot", slog.String("file", path), slog.String("format", format), slog.Int("series", len(table.Columns)))
	return nil
}

func writeFile(path string, out []byte) error {
	err := os.WriteFile(path, out, 0644) // #nosec G306
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

func hasSamples(table *merge.MergedTable) bool {
	for _, c := range table.Columns {
		if len(c.Times) > 0 {
			return true
		}
	}
	return false
}

// formatValue renders a float with the fewest digits that read back to the same value
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// headerRow returns the column headings: the time column then one per series
func headerRow(table *merge.MergedTable) []string {
	return append([]string{TimeColumnName}, table.Labels()...)
}

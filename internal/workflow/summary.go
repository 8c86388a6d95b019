package workflow

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderSummary returns a table with one row per input file followed by a
// line describing the outputs.
func RenderSummary(r *RunReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Label", "Samples", "Offset (uA)", "Mean", "Std Dev", "Min", "Max", "Status"})
	for _, result := range r.Results {
		if !result.OK() {
			tw.AppendRow(table.Row{result.Label, "", "", "", "", "", "", result.Status()})
			continue
		}
		tw.AppendRow(table.Row{
			result.Label,
			result.Samples,
			formatStat(result.Offset),
			formatStat(result.Stats.Mean),
			formatStat(result.Stats.StdDev),
			formatStat(result.Stats.Min),
			formatStat(result.Stats.Max),
			result.Status(),
		})
	}
	columnConfigs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= 7; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(columnConfigs)

	// printer adds thousands separators to the counts
	p := message.NewPrinter(language.English)
	var sb strings.Builder
	sb.WriteString(tw.Render())
	sb.WriteString("\n")
	sb.WriteString(p.Sprintf("Processed %d of %d files: %d rows, %d columns\n",
		r.Processed(), len(r.Results), r.Rows, r.Columns))
	if r.TablePath != "" {
		fmt.Fprintf(&sb, "Table: %s\n", r.TablePath)
	}
	if r.ImagePath != "" {
		fmt.Fprintf(&sb, "Plot:  %s\n", r.ImagePath)
	}
	return sb.String()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

type reportRow struct {
	RunID         string  `csv:"run_id"`
	File          string  `csv:"file"`
	Label         string  `csv:"label"`
	Status        string  `csv:"status"`
	Samples       int     `csv:"samples"`
	StartingPoint int     `csv:"starting_point"`
	Standard      float64 `csv:"standard"`
	Offset        float64 `csv:"offset"`
	Mean          float64 `csv:"mean"`
	StdDev        float64 `csv:"std_dev"`
	Min           float64 `csv:"min"`
	Max           float64 `csv:"max"`
	Error         string  `csv:"error"`
}

// WriteReportCsv writes one row per input file describing how it was
// processed.
func WriteReportCsv(r *RunReport, path string) error {
	rows := make([]*reportRow, 0, len(r.Results))
	for _, result := range r.Results {
		row := &reportRow{
			RunID:         r.RunID,
			File:          result.Path,
			Label:         result.Label,
			Status:        result.Status(),
			Samples:       result.Samples,
			StartingPoint: r.Parameters.StartingPoint,
			Standard:      r.Parameters.Standard,
			Offset:        result.Offset,
			Mean:          result.Stats.Mean,
			StdDev:        result.Stats.StdDev,
			Min:           result.Stats.Min,
			Max:           result.Stats.Max,
		}
		if result.Err != nil {
			row.Error = result.Err.Error()
		}
		rows = append(rows, row)
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create run report: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}

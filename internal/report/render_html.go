package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"

	"oect/internal/merge"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const htmlPlotTitle = "Normalized drain current"

// createHtmlPlot renders an interactive line chart with a numeric time axis,
// one series per column
func createHtmlPlot(table *merge.MergedTable) (out []byte, err error) {
	colors := Palette(len(table.Columns))
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: htmlPlotTitle,
			Width:     fmt.Sprintf("%dpx", plotWidthPx),
			Height:    fmt.Sprintf("%dpx", plotHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{Title: htmlPlotTitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Name: PlotXAxisLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: PlotYAxisLabel, Type: "value"}),
	)
	for i, c := range table.Columns {
		if len(c.Times) == 0 {
			continue
		}
		data := make([]opts.LineData, len(c.Times))
		for j := range c.Times {
			data[j] = opts.LineData{Value: []interface{}{c.Times[j], c.Values[j]}}
		}
		hex := HexColor(colors[i])
		line.AddSeries(c.Label, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(len(c.Times) == 1)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hex, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex}),
		)
	}
	var buf bytes.Buffer
	if err = line.Render(&buf); err != nil {
		err = fmt.Errorf("failed to render html plot: %w", err)
		return
	}
	out = buf.Bytes()
	return
}

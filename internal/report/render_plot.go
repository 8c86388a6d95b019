package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"math"

	"oect/internal/merge"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	plotWidthPx  = 1280
	plotHeightPx = 720
	plotMargin   = 0.05
)

// createChartPlot draws every column against its own time values
func createChartPlot(format string, table *merge.MergedTable) (out []byte, err error) {
	graph := newChart(table)
	renderer := chart.PNG
	if format == FormatSvg {
		renderer = chart.SVG
	}
	var buf bytes.Buffer
	if err = graph.Render(renderer, &buf); err != nil {
		err = fmt.Errorf("failed to render %s plot: %w", format, err)
		return
	}
	out = buf.Bytes()
	return
}

func newChart(table *merge.MergedTable) chart.Chart {
	colors := Palette(len(table.Columns))
	var series []chart.Series
	xRange := newBounds()
	yRange := newBounds()
	for i, c := range table.Columns {
		if len(c.Times) == 0 {
			continue
		}
		xRange.add(c.Times...)
		yRange.add(c.Values...)
		stroke := drawing.Color{R: colors[i].R, G: colors[i].G, B: colors[i].B, A: colors[i].A}
		style := chart.Style{
			StrokeColor: stroke,
			StrokeWidth: 2,
		}
		if len(c.Times) == 1 {
			// a single point draws no line segment
			style.DotColor = stroke
			style.DotWidth = 4
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Label,
			XValues: c.Times,
			YValues: c.Values,
			Style:   style,
		})
	}
	graph := chart.Chart{
		Width:  plotWidthPx,
		Height: plotHeightPx,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  PlotXAxisLabel,
			Range: xRange.continuousRange(0),
		},
		YAxis: chart.YAxis{
			Name:  PlotYAxisLabel,
			Range: yRange.continuousRange(plotMargin),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

type bounds struct {
	min, max float64
}

func newBounds() *bounds {
	return &bounds{min: math.Inf(1), max: math.Inf(-1)}
}

func (b *bounds) add(values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
	}
}

// continuousRange pads the bounds by margin (a fraction of the span). A zero
// span is widened so the chart has a non-empty range to draw.
func (b *bounds) continuousRange(margin float64) *chart.ContinuousRange {
	lo, hi := b.min, b.max
	if lo > hi {
		lo, hi = 0, 1
	}
	span := hi - lo
	if span == 0 {
		pad := math.Max(math.Abs(lo)*0.01, 0.5)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo - span*margin, Max: hi + span*margin}
}

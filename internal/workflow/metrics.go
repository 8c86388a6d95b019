// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const promMetricPrefix = "oect_"

// WriteMetricsFile writes the run's counters in the Prometheus text format,
// for collection by a node exporter textfile collector.
func WriteMetricsFile(r *RunReport, path string) error {
	registry := prometheus.NewRegistry()
	files := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "files",
			Help: "Input files in the last run, by status",
		},
		[]string{"status"},
	)
	samples := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "samples",
			Help: "Samples read from each merged input file",
		},
		[]string{"label"},
	)
	offsets := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "offset_microamps",
			Help: "Offset subtracted from each merged input file",
		},
		[]string{"label"},
	)
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: promMetricPrefix + "merged_rows",
		Help: "Rows in the merged table",
	})
	columns := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: promMetricPrefix + "merged_columns",
		Help: "Series columns in the merged table",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: promMetricPrefix + "run_duration_seconds",
		Help: "Time taken by the last run",
	})
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "run_info",
			Help: "Identifies the last run",
		},
		[]string{"run_id", "policy"},
	)
	for _, c := range []prometheus.Collector{files, samples, offsets, rows, columns, duration, info} {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register metric: %w", err)
		}
	}

	files.WithLabelValues(StatusOK).Set(float64(r.Processed()))
	files.WithLabelValues("failed").Set(float64(r.Failed()))
	for _, result := range r.Results {
		if !result.OK() {
			continue
		}
		samples.WithLabelValues(result.Label).Set(float64(result.Samples))
		offsets.WithLabelValues(result.Label).Set(result.Offset)
	}
	rows.Set(float64(r.Rows))
	columns.Set(float64(r.Columns))
	duration.Set(r.Duration.Seconds())
	info.WithLabelValues(r.RunID, string(r.Policy)).Set(1)

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	slog.Debug("metrics written", slog.String("file", path))
	return nil
}

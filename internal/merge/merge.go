// Package merge joins normalized series into one table keyed by time.
package merge

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"oect/internal/logfile"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrDuplicateLabel is returned when two series share a label.
var ErrDuplicateLabel = errors.New("duplicate series label")

// Column holds one series' drain current keyed by time. Times and Values keep
// the series' own points in file order, for plotting.
type Column struct {
	Label  string
	Times  []float64
	Values []float64
	byTime map[float64]float64
}

// Value returns the drain current recorded at time t.
func (c Column) Value(t float64) (float64, bool) {
	v, ok := c.byTime[t]
	return v, ok
}

// MergedTable is the outer join of a set of series on exact time value.
// Times is ascending and free of duplicates; Columns keeps input order.
type MergedTable struct {
	Times   []float64
	Columns []Column
}

// Rows returns the number of distinct time values.
func (t *MergedTable) Rows() int {
	return len(t.Times)
}

// Labels returns the column labels in order.
func (t *MergedTable) Labels() []string {
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Value returns the cell at row, col. ok is false where the column's series
// has no sample at that row's time.
func (t *MergedTable) Value(row, col int) (float64, bool) {
	return t.Columns[col].Value(t.Times[row])
}

// Column returns the column with the given label.
func (t *MergedTable) Column(label string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Label == label {
			return c, true
		}
	}
	return Column{}, false
}

// Merge builds the outer join of series on time. Time values are matched by
// exact equality, so values differing only by rounding stay in separate rows.
// When a series repeats a time value, the table keeps its first sample.
func Merge(series ...logfile.Series) (*MergedTable, error) {
	table := &MergedTable{Columns: make([]Column, 0, len(series))}
	timeSet := mapset.NewThreadUnsafeSet[float64]()
	labelSet := mapset.NewThreadUnsafeSet[string]()
	for _, s := range series {
		if !labelSet.Add(s.Label) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLabel, s.Label)
		}
		column := Column{
			Label:  s.Label,
			Times:  s.Times(),
			Values: s.DrainCurrents(),
			byTime: make(map[float64]float64, s.Len()),
		}
		repeated := 0
		for i, t := range column.Times {
			if _, exists := column.byTime[t]; exists {
				repeated++
				continue
			}
			column.byTime[t] = column.Values[i]
			timeSet.Add(t)
		}
		if repeated > 0 {
			slog.Warn("series repeats time values, keeping first sample", slog.String("series", s.Label), slog.Int("repeated", repeated))
		}
		table.Columns = append(table.Columns, column)
	}
	table.Times = timeSet.ToSlice()
	slices.Sort(table.Times)
	return table, nil
}

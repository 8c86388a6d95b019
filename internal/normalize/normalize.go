// Package normalize shifts a series' drain current so a chosen reference
// sample lands on a target value.
package normalize

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"oect/internal/logfile"
)

// IndexError reports a starting point outside the series.
type IndexError struct {
	Label string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: starting point %d is out of range, series has %d samples", e.Label, e.Index, e.Len)
}

// Offset returns the constant subtracted from every drain current value:
// samples[startingPoint].DrainCurrent - standard.
func Offset(series logfile.Series, startingPoint int, standard float64) (float64, error) {
	if startingPoint < 0 || startingPoint >= series.Len() {
		return 0, &IndexError{Label: series.Label, Index: startingPoint, Len: series.Len()}
	}
	return series.Samples[startingPoint].DrainCurrent - standard, nil
}

// Normalize returns a copy of series with every drain current shifted by the
// offset. Time, gate voltage and gate current are copied unchanged.
func Normalize(series logfile.Series, startingPoint int, standard float64) (logfile.Series, float64, error) {
	offset, err := Offset(series, startingPoint, standard)
	if err != nil {
		return logfile.Series{}, 0, err
	}
	out := logfile.Series{
		Label:   series.Label,
		Path:    series.Path,
		Samples: make([]logfile.Sample, len(series.Samples)),
	}
	for i, sample := range series.Samples {
		sample.DrainCurrent -= offset
		out.Samples[i] = sample
	}
	// x - (x - standard) can be off by an ulp; the reference sample is pinned
	out.Samples[startingPoint].DrainCurrent = standard
	return out, offset, nil
}

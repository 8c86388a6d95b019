package workflow

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"oect/internal/logfile"
	"oect/internal/normalize"
	"oect/internal/session"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// file status values used in summaries and reports
const (
	StatusOK         = "ok"
	StatusParseError = "parse error"
	StatusIndexError = "index error"
	StatusError      = "error"
)

// SeriesStats summarizes a normalized drain current channel, in uA.
type SeriesStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func newSeriesStats(values []float64) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}
	s := SeriesStats{
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	if len(values) < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

// FileResult is the outcome of reading and normalizing one input file.
type FileResult struct {
	Path    string
	Label   string
	Samples int
	Offset  float64 // subtracted from every drain current value, uA
	Stats   SeriesStats
	Err     error
}

// OK reports whether the file made it into the merged table.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Status classifies the result for display.
func (r FileResult) Status() string {
	var parseErr *logfile.ParseError
	var indexErr *normalize.IndexError
	switch {
	case r.Err == nil:
		return StatusOK
	case errors.As(r.Err, &parseErr):
		return StatusParseError
	case errors.As(r.Err, &indexErr):
		return StatusIndexError
	}
	return StatusError
}

// RunReport describes a completed run.
type RunReport struct {
	RunID      string
	Policy     ErrorPolicy
	Parameters session.Parameters
	Results    []FileResult
	Rows       int
	Columns    int
	TablePath  string
	ImagePath  string // empty when no plot was written
	Duration   time.Duration
}

// Processed returns the number of files merged into the table.
func (r *RunReport) Processed() int {
	n := 0
	for _, result := range r.Results {
		if result.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that were skipped because of an error.
func (r *RunReport) Failed() int {
	return len(r.Results) - r.Processed()
}

// Err returns a *RunError when any file failed, nil otherwise.
func (r *RunReport) Err() error {
	var errs []error
	for _, result := range r.Results {
		if !result.OK() {
			errs = append(errs, result.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &RunError{Failed: len(errs), Total: len(r.Results), Errs: errs}
}

// RunError reports the files that were skipped in an otherwise completed run.
type RunError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *RunError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d of %d files failed: %s", e.Failed, e.Total, strings.Join(msgs, "; "))
}

func (e *RunError) Unwrap() []error {
	return e.Errs
}

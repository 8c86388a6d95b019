// Package logfile reads OECT instrument log files into time-ordered sample series.
package logfile

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// unit conversions applied while reading
const (
	MillisecondsPerSecond = 1000.0
	MicroampsPerAmp       = 1000000.0
)

// number of leading numeric fields on every data line
const fieldCount = 4

// field positions on a data line
const (
	idxTime int = iota
	idxGateVoltage
	idxDrainCurrent
	idxGateCurrent
)

// Sample is one measurement row after unit conversion.
type Sample struct {
	Time         float64 // seconds
	GateVoltage  float64 // volts
	DrainCurrent float64 // microamps
	GateCurrent  float64 // amps
}

// Series is the ordered sample sequence read from one file. Samples keep the
// order they had in the file.
type Series struct {
	Label   string
	Path    string
	Samples []Sample
}

// Len returns the number of samples in the series.
func (s Series) Len() int {
	return len(s.Samples)
}

// Times returns the time channel.
func (s Series) Times() []float64 {
	times := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		times[i] = sample.Time
	}
	return times
}

// DrainCurrents returns the drain current channel.
func (s Series) DrainCurrents() []float64 {
	currents := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		currents[i] = sample.DrainCurrent
	}
	return currents
}

// ParseError reports a data line (or the file itself, Line 0) that could not be read.
type ParseError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile reads the file at path, taking samples from every line at or after
// startLine (1-based). The file is closed before ParseFile returns.
func ParseFile(path string, startLine int) (Series, error) {
	file, err := os.Open(path) // #nosec G304
	if err != nil {
		return Series{}, &ParseError{Path: path, Reason: "unreadable file", Err: errors.Wrap(err, "open")}
	}
	defer file.Close()
	series, err := Parse(file, path, startLine)
	if err != nil {
		return Series{}, err
	}
	slog.Debug("parsed log file", slog.String("file", path), slog.Int("samples", series.Len()), slog.Int("startLine", startLine))
	return series, nil
}

// Parse reads samples from r. name identifies the source in errors and
// provides the series label.
func Parse(r io.Reader, name string, startLine int) (Series, error) {
	if startLine < 1 {
		return Series{}, &ParseError{Path: name, Reason: fmt.Sprintf("start line must be at least 1, got %d", startLine)}
	}
	series := Series{
		Label: Sanitize(name),
		Path:  name,
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber < startLine {
			continue
		}
		sample, err := parseLine(scanner.Text())
		if err != nil {
			err.Path = name
			err.Line = lineNumber
			return Series{}, err
		}
		series.Samples = append(series.Samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return Series{}, &ParseError{Path: name, Line: lineNumber + 1, Reason: "read failed", Err: errors.Wrapf(err, "scan after line %d", lineNumber)}
	}
	return series, nil
}

// parseLine converts the first four whitespace separated fields of line.
// Fields past the fourth are ignored.
func parseLine(line string) (Sample, *ParseError) {
	fields := strings.Fields(line)
	if len(fields) < fieldCount {
		return Sample{}, &ParseError{Reason: fmt.Sprintf("expected %d fields, found %d", fieldCount, len(fields))}
	}
	var values [fieldCount]float64
	for i := range fieldCount {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Sample{}, &ParseError{Reason: fmt.Sprintf("field %d (%q) is not a number", i+1, fields[i]), Err: err}
		}
		values[i] = v
	}
	// time is the merge key, so it has to compare equal to itself
	if math.IsNaN(values[idxTime]) || math.IsInf(values[idxTime], 0) {
		return Sample{}, &ParseError{Reason: fmt.Sprintf("time %q is not finite", fields[idxTime])}
	}
	return Sample{
		Time:         values[idxTime] / MillisecondsPerSecond,
		GateVoltage:  values[idxGateVoltage],
		DrainCurrent: values[idxDrainCurrent] * MicroampsPerAmp,
		GateCurrent:  values[idxGateCurrent],
	}, nil
}

// Package workflow runs the pipeline shared by the commands: parse each
// selected file, normalize it, merge the series, and export the results.
package workflow

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"oect/internal/logfile"
	"oect/internal/merge"
	"oect/internal/normalize"
	"oect/internal/progress"
	"oect/internal/report"
	"oect/internal/session"
	"oect/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrorPolicy decides what happens when one input file fails.
type ErrorPolicy string

const (
	// PolicySkip records the failure, leaves the file out, and exports the rest.
	PolicySkip ErrorPolicy = "skip"
	// PolicyAbort stops at the first failure and writes nothing.
	PolicyAbort ErrorPolicy = "abort"
)

// ErrorPolicies lists the accepted policy names.
var ErrorPolicies = []string{string(PolicySkip), string(PolicyAbort)}

// ParseErrorPolicy converts a policy name to an ErrorPolicy.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch ErrorPolicy(name) {
	case PolicySkip, PolicyAbort:
		return ErrorPolicy(name), nil
	}
	return "", fmt.Errorf("unknown error policy %q, expected one of %v", name, ErrorPolicies)
}

// InputError reports a run that could not start: no files were selected or
// the parameters are invalid. Nothing is processed or written.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Options control a single run.
type Options struct {
	Policy    ErrorPolicy
	OutputDir string                           // relative output paths are resolved against this directory
	Status    progress.MultiSpinnerUpdateFunc // optional, called with a file's label and its new status
}

// Labels returns the column label each file will get, in file order.
func Labels(files []string) []string {
	series := make([]logfile.Series, len(files))
	for i, file := range files {
		series[i] = logfile.Series{Label: logfile.Sanitize(file), Path: file}
	}
	series = logfile.UniqueLabels(series)
	labels := make([]string, len(series))
	for i := range series {
		labels[i] = series[i].Label
	}
	return labels
}

// Run processes the session's files and writes the merged table and, when
// enabled, the plot. The session is read once at the start; edits made while
// the run is in progress are not seen.
//
// With PolicySkip a failed file is recorded in the report and left out of the
// merge. Use RunReport.Err to find out whether any file failed. With
// PolicyAbort the first failure is returned and no output is written. Export
// failures are returned as *report.ExportError under either policy.
func Run(sess *session.Session, opts Options) (*RunReport, error) {
	start := time.Now()
	var runReport *RunReport
	defer func() {
		if runReport != nil {
			runReport.Duration = time.Since(start)
		}
	}()
	snapshot := sess.Snapshot()
	if opts.Policy == "" {
		opts.Policy = PolicySkip
	}
	if _, err := ParseErrorPolicy(string(opts.Policy)); err != nil {
		return nil, &InputError{Msg: "invalid options", Err: err}
	}
	if len(snapshot.Files) == 0 {
		return nil, &InputError{Msg: "no input files selected"}
	}
	if err := snapshot.Validate(); err != nil {
		return nil, &InputError{Msg: "invalid parameters", Err: err}
	}
	runReport = &RunReport{
		RunID:      uuid.NewString(),
		Policy:     opts.Policy,
		Parameters: snapshot.Parameters,
		TablePath:  util.ResolveOutputPath(opts.OutputDir, snapshot.TableOutput),
	}
	logger := slog.With(slog.String("run", runReport.RunID))
	logger.Info("run started", slog.Int("files", len(snapshot.Files)), slog.String("policy", string(opts.Policy)),
		slog.Int("starting_point", snapshot.Parameters.StartingPoint),
		slog.Float64("standard", snapshot.Parameters.Standard),
		slog.Int("start_line", snapshot.Parameters.StartLine))

	setStatus := func(label, status string) {
		if opts.Status == nil {
			return
		}
		if err := opts.Status(label, status); err != nil {
			logger.Debug("failed to update status", slog.String("label", label), slog.String("error", err.Error()))
		}
	}

	labels := Labels(snapshot.Files)
	var normalized []logfile.Series
	for i, file := range snapshot.Files {
		result, series := processFile(file, labels[i], snapshot.Parameters, setStatus)
		runReport.Results = append(runReport.Results, result)
		if result.Err != nil {
			logger.Warn("file failed", slog.String("file", file), slog.String("error", result.Err.Error()))
			setStatus(result.Label, progress.StatusSkipped+": "+result.Status())
			if opts.Policy == PolicyAbort {
				return runReport, result.Err
			}
			continue
		}
		logger.Debug("file processed", slog.String("file", file), slog.Int("samples", result.Samples),
			slog.Float64("offset", result.Offset))
		setStatus(result.Label, progress.StatusDone)
		normalized = append(normalized, series)
	}

	table, err := merge.Merge(normalized...)
	if err != nil {
		return runReport, fmt.Errorf("failed to merge series: %w", err)
	}
	runReport.Rows = table.Rows()
	runReport.Columns = len(table.Columns)

	if err := createOutputDir(opts.OutputDir); err != nil {
		return runReport, err
	}
	if err := report.WriteTable(table, runReport.TablePath); err != nil {
		return runReport, err
	}
	logger.Info("table written", slog.String("file", runReport.TablePath), slog.Int("rows", runReport.Rows),
		slog.Int("columns", runReport.Columns))

	if snapshot.SavePlot {
		imagePath := util.ResolveOutputPath(opts.OutputDir, snapshot.ImageOutput)
		err := report.WritePlot(table, imagePath)
		switch {
		case errors.Is(err, report.ErrNothingToPlot):
			logger.Warn("plot skipped, no samples to draw", slog.String("file", imagePath))
		case err != nil:
			return runReport, err
		default:
			runReport.ImagePath = imagePath
			logger.Info("plot written", slog.String("file", imagePath))
		}
	}
	logger.Info("run finished", slog.Int("processed", runReport.Processed()), slog.Int("failed", runReport.Failed()),
		slog.Duration("duration", time.Since(start)))
	return runReport, nil
}

func processFile(path, label string, params session.Parameters, setStatus func(string, string)) (FileResult, logfile.Series) {
	result := FileResult{Path: path, Label: label}
	setStatus(label, progress.StatusParsing)
	series, err := logfile.ParseFile(path, params.StartLine)
	if err != nil {
		result.Err = err
		return result, logfile.Series{}
	}
	series.Label = label
	result.Samples = series.Len()
	setStatus(label, progress.StatusNormalizing)
	normalized, offset, err := normalize.Normalize(series, params.StartingPoint, params.Standard)
	if err != nil {
		result.Err = err
		return result, logfile.Series{}
	}
	result.Offset = offset
	result.Stats = newSeriesStats(normalized.DrainCurrents())
	return result, normalized
}

// createOutputDir creates the --output directory. Directories named in the
// output file names themselves must already exist.
func createOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := util.CreateDirectoryIfNotExists(dir, 0755); err != nil { // #nosec G301
		return &report.ExportError{Path: dir, Err: err}
	}
	return nil
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := fmt.Errorf("%s", msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

package process

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oect/internal/app"
	"oect/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the process command under a fresh root, writing outputs to outputDir
func execute(t *testing.T, sessionPath, outputDir string, args ...string) (stdout, stderr string, err error) {
	t.Cleanup(func() {
		Cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	root := &cobra.Command{Use: app.Name}
	root.AddGroup(&cobra.Group{ID: "primary", Title: "Commands:"})
	root.PersistentFlags().StringVar(&app.FlagSession, app.FlagSessionName, sessionPath, "")
	root.AddCommand(Cmd)
	root.SetContext(app.WithContext(context.Background(), app.Context{OutputDir: outputDir}))
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(append([]string{cmdName, "--" + flagNoProgressName}, args...))
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeLog(t *testing.T, dir, name string, rows ...string) string {
	var sb strings.Builder
	for i := range 14 {
		fmt.Fprintf(&sb, "header %d\n", i+1)
	}
	for _, row := range rows {
		sb.WriteString(row + "\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestProcessFilesFromArgs(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.txt", "100 0 0.001 0", "200 0 0.002 0")
	b := writeLog(t, dir, "b.txt", "300 0 0.001 0", "400 0 0.003 0")
	out := filepath.Join(dir, "out")

	stdout, stderr, err := execute(t, filepath.Join(dir, "session.yaml"), out, a, b,
		"--starting-point", "0", "--standard", "0", "--image-output", "plot.svg",
		"--report", "report.csv", "--metrics-file", "oect.prom")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Processed 2 of 2 files: 4 rows, 2 columns")
	assert.FileExists(t, filepath.Join(out, "output.csv"))
	assert.FileExists(t, filepath.Join(out, "plot.svg"))
	assert.FileExists(t, filepath.Join(out, "report.csv"))
	metrics, err := os.ReadFile(filepath.Join(out, "oect.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `oect_files{status="ok"} 2`)
	assert.Contains(t, string(metrics), "oect_merged_rows 4")
	assert.Contains(t, string(metrics), "oect_merged_columns 2")
	// arguments are not saved to the session
	assert.NoFileExists(t, filepath.Join(dir, "session.yaml"))
}

func TestProcessRepeatedArgument(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.txt", "100 0 0.001 0", "200 0 0.002 0")

	stdout, stderr, err := execute(t, filepath.Join(dir, "session.yaml"), dir, a, a,
		"--starting-point", "0", "--plot=false")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Processed 2 of 2 files")
	data, err := os.ReadFile(filepath.Join(dir, "output.csv"))
	require.NoError(t, err)
	header, _, _ := strings.Cut(string(data), "\n")
	assert.Equal(t, "Time,a.txt,a.txt_2", strings.TrimSpace(header))
}

func TestProcessFilesFromSession(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.txt", "100 0 0.001 0", "200 0 0.002 0")
	sessionPath := filepath.Join(dir, "session.yaml")
	s, err := session.Defaults()
	require.NoError(t, err)
	s.Files = []string{a}
	s.Parameters.StartingPoint = 1
	s.SavePlot = false
	require.NoError(t, s.Save(sessionPath))

	stdout, stderr, err := execute(t, sessionPath, dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Processed 1 of 1 files")
	assert.FileExists(t, filepath.Join(dir, "output.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "output.png"))
}

func TestProcessSkippedFileFailsRun(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.txt", "100 0 0.001 0")
	bad := writeLog(t, dir, "bad.txt", "100 0 oops 0")

	stdout, stderr, err := execute(t, filepath.Join(dir, "session.yaml"), dir, a, bad,
		"--starting-point", "0", "--plot=false")
	require.Error(t, err)
	assert.Contains(t, stdout, "Processed 1 of 2 files")
	assert.Contains(t, stderr, "Error: 1 of 2 files failed")
	assert.FileExists(t, filepath.Join(dir, "output.csv"))
}

func TestProcessAbortWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.txt", "100 0 0.001 0")
	bad := writeLog(t, dir, "bad.txt", "100 0 oops 0")

	_, stderr, err := execute(t, filepath.Join(dir, "session.yaml"), dir, bad, a,
		"--starting-point", "0", "--on-error", "abort")
	require.Error(t, err)
	assert.Contains(t, stderr, "bad.txt:15")
	assert.NoFileExists(t, filepath.Join(dir, "output.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "output.png"))
}

func TestProcessNoFiles(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, filepath.Join(dir, "session.yaml"), dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "no input files selected")
	assert.Contains(t, stderr, "session add")
}

func TestProcessFlagValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown policy", []string{"--on-error", "retry"}},
		{"negative starting point", []string{"--starting-point", "-1"}},
		{"zero start line", []string{"--start-line", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, filepath.Join(dir, "session.yaml"), dir, tt.args...)
			assert.Error(t, err)
		})
	}
}

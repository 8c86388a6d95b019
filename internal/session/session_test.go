package session

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)
	assert.Empty(t, s.Files)
	assert.Equal(t, Parameters{StartingPoint: 449, Standard: -450, StartLine: 15}, s.Parameters)
	assert.Equal(t, "output.csv", s.TableOutput)
	assert.Equal(t, "output.png", s.ImageOutput)
	assert.True(t, s.SavePlot)
}

func TestDefaultsFromEnv(t *testing.T) {
	t.Setenv("OECT_STARTING_POINT", "2")
	t.Setenv("OECT_STANDARD", "0.5")
	t.Setenv("OECT_START_LINE", "3")
	t.Setenv("OECT_TABLE_OUTPUT", "merged.xlsx")
	t.Setenv("OECT_SAVE_PLOT", "false")

	s, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, Parameters{StartingPoint: 2, Standard: 0.5, StartLine: 3}, s.Parameters)
	assert.Equal(t, "merged.xlsx", s.TableOutput)
	assert.Equal(t, "output.png", s.ImageOutput)
	assert.False(t, s.SavePlot)
}

func TestDefaultsBadEnv(t *testing.T) {
	t.Setenv("OECT_START_LINE", "fifteen")
	_, err := Defaults()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 449, s.Parameters.StartingPoint)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	s, err := Defaults()
	require.NoError(t, err)
	s.Files = []string{"/data/run1.txt", "/data/run2.txt"}
	s.Parameters = Parameters{StartingPoint: 10, Standard: -12.5, StartLine: 20}
	s.ImageOutput = "overlay.html"
	s.SavePlot = false
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := "files:\n  - /data/a.txt\nparameters:\n  standard: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a.txt"}, s.Files)
	assert.Equal(t, Parameters{StartingPoint: 449, Standard: 0, StartLine: 15}, s.Parameters)
	assert.Equal(t, "output.csv", s.TableOutput)
	assert.True(t, s.SavePlot)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parameters: [1, 2\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	s, err := Defaults()
	require.NoError(t, err)

	added, err := s.AddFiles(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	added, err = s.AddFiles(b, a, filepath.Join(dir, ".", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, []string{a, b}, s.Files)

	s.ClearFiles()
	assert.Empty(t, s.Files)
}

func TestAddFilesMakesAbsolute(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)
	_, err = s.AddFiles("relative/run.txt")
	require.NoError(t, err)
	require.Len(t, s.Files, 1)
	assert.True(t, filepath.IsAbs(s.Files[0]))
}

func TestSetFilesKeepsRepeats(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	s, err := Defaults()
	require.NoError(t, err)
	s.Files = []string{b}

	require.NoError(t, s.SetFiles(a, a, filepath.Join(dir, ".", "b.txt")))
	assert.Equal(t, []string{a, a, b}, s.Files)
}

func TestSnapshotIsIndependent(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)
	s.Files = []string{"/a.txt"}
	snapshot := s.Snapshot()
	s.Files[0] = "/changed.txt"
	s.Parameters.Standard = 99
	assert.Equal(t, []string{"/a.txt"}, snapshot.Files)
	assert.Equal(t, -450.0, snapshot.Parameters.Standard)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Session)
		wantErr string
	}{
		{"defaults", func(*Session) {}, ""},
		{"zero starting point", func(s *Session) { s.Parameters.StartingPoint = 0 }, ""},
		{"negative starting point", func(s *Session) { s.Parameters.StartingPoint = -1 }, "starting_point must be at least 0, got -1"},
		{"zero start line", func(s *Session) { s.Parameters.StartLine = 0 }, "start_line must be at least 1, got 0"},
		{"no table output", func(s *Session) { s.TableOutput = "" }, "table_output is required"},
		{"no image output", func(s *Session) { s.ImageOutput = "" }, "image_output is required"},
		{"no image output without plot", func(s *Session) { s.ImageOutput = ""; s.SavePlot = false }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Defaults()
			require.NoError(t, err)
			tt.modify(s)
			err = s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

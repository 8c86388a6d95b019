package logfile

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"path/filepath"
	"strings"
)

var labelReplacer = strings.NewReplacer(
	":", "_",
	"\\", "_",
	"/", "_",
	"?", "_",
	"*", "_",
	"[", "_",
	"]", "_",
)

// Sanitize turns a file path into a series label: the directory is dropped and
// characters that are not allowed in spreadsheet headers are replaced with '_'.
func Sanitize(path string) string {
	return labelReplacer.Replace(filepath.Base(path))
}

// UniqueLabels returns the series with repeated labels suffixed "_2", "_3", ...
// in input order. The first occurrence keeps its label.
func UniqueLabels(series []Series) []Series {
	out := make([]Series, len(series))
	seen := make(map[string]bool, len(series))
	for i, s := range series {
		label := s.Label
		for n := 2; seen[label]; n++ {
			label = fmt.Sprintf("%s_%d", s.Label, n)
		}
		seen[label] = true
		s.Label = label
		out[i] = s
	}
	return out
}

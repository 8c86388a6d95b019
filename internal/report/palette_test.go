package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteDistinct(t *testing.T) {
	for n := 1; n <= 24; n++ {
		colors := Palette(n)
		assert.Len(t, colors, n)
		seen := make(map[color.RGBA]bool)
		for _, c := range colors {
			assert.False(t, seen[c], "n=%d repeats %v", n, c)
			assert.Equal(t, uint8(255), c.A)
			seen[c] = true
		}
	}
	assert.Empty(t, Palette(0))
}

func TestHsvToRGBA(t *testing.T) {
	tests := []struct {
		h, s, v  float64
		expected color.RGBA
	}{
		{0, 1, 1, color.RGBA{255, 0, 0, 255}},
		{120, 1, 1, color.RGBA{0, 255, 0, 255}},
		{240, 1, 1, color.RGBA{0, 0, 255, 255}},
		{60, 1, 1, color.RGBA{255, 255, 0, 255}},
		{300, 1, 1, color.RGBA{255, 0, 255, 255}},
		{0, 0, 1, color.RGBA{255, 255, 255, 255}},
		{200, 1, 0, color.RGBA{0, 0, 0, 255}},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, hsvToRGBA(test.h, test.s, test.v), "h=%v s=%v v=%v", test.h, test.s, test.v)
	}
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ff0000", HexColor(color.RGBA{255, 0, 0, 255}))
	assert.Equal(t, "#0a1b2c", HexColor(color.RGBA{10, 27, 44, 255}))
}

package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"image/color"
	"math"
)

const (
	paletteSaturation = 0.85
	paletteValue      = 0.85
)

// Palette returns n colors with hues evenly spaced around the color wheel,
// starting at red.
func Palette(n int) []color.RGBA {
	colors := make([]color.RGBA, n)
	for i := range n {
		colors[i] = hsvToRGBA(360.0*float64(i)/float64(n), paletteSaturation, paletteValue)
	}
	return colors
}

// HexColor formats c as #rrggbb.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// hsvToRGBA converts hue in degrees [0, 360), saturation and value in [0, 1]
func hsvToRGBA(h, s, v float64) color.RGBA {
	chroma := v * s
	sector := h / 60.0
	x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))
	var r, g, b float64
	switch {
	case sector < 1:
		r, g, b = chroma, x, 0
	case sector < 2:
		r, g, b = x, chroma, 0
	case sector < 3:
		r, g, b = 0, chroma, x
	case sector < 4:
		r, g, b = 0, x, chroma
	case sector < 5:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	m := v - chroma
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

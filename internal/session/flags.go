package session

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"github.com/spf13/pflag"
)

// flag names shared by the commands that change session settings
const (
	FlagStartingPointName = "starting-point"
	FlagStandardName      = "standard"
	FlagStartLineName     = "start-line"
	FlagTableOutputName   = "table-output"
	FlagImageOutputName   = "image-output"
	FlagPlotName          = "plot"
)

// FlagNames lists the setting flags in display order.
var FlagNames = []string{
	FlagStartingPointName,
	FlagStandardName,
	FlagStartLineName,
	FlagTableOutputName,
	FlagImageOutputName,
	FlagPlotName,
}

// Overrides holds setting flag values. Only flags the user set are applied.
type Overrides struct {
	flags         *pflag.FlagSet
	startingPoint int
	standard      float64
	startLine     int
	tableOutput   string
	imageOutput   string
	plot          bool
}

// AddFlags registers the setting flags on fs. The displayed defaults are the
// built-in ones; a session file takes precedence over them.
func AddFlags(fs *pflag.FlagSet) *Overrides {
	d, err := Defaults()
	if err != nil {
		// a bad environment is reported when the session is loaded
		d = &Session{}
	}
	o := &Overrides{flags: fs}
	fs.IntVar(&o.startingPoint, FlagStartingPointName, d.Parameters.StartingPoint, "index of the reference sample in each file, 0-based")
	fs.Float64Var(&o.standard, FlagStandardName, d.Parameters.Standard, "drain current the reference sample is shifted to, in uA")
	fs.IntVar(&o.startLine, FlagStartLineName, d.Parameters.StartLine, "first data line in each file, 1-based")
	fs.StringVar(&o.tableOutput, FlagTableOutputName, d.TableOutput, "merged table file, .csv or .xlsx")
	fs.StringVar(&o.imageOutput, FlagImageOutputName, d.ImageOutput, "overlay plot file, .png, .svg or .html")
	fs.BoolVar(&o.plot, FlagPlotName, d.SavePlot, "write the overlay plot")
	return o
}

// Apply copies every flag the user set into s and returns how many were set.
func (o *Overrides) Apply(s *Session) int {
	changed := 0
	o.flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case FlagStartingPointName:
			s.Parameters.StartingPoint = o.startingPoint
		case FlagStandardName:
			s.Parameters.Standard = o.standard
		case FlagStartLineName:
			s.Parameters.StartLine = o.startLine
		case FlagTableOutputName:
			s.TableOutput = o.tableOutput
		case FlagImageOutputName:
			s.ImageOutput = o.imageOutput
		case FlagPlotName:
			s.SavePlot = o.plot
		default:
			return
		}
		changed++
	})
	return changed
}

// Package app defines application-wide types, constants, and context
// that are shared across multiple commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Name is the name of the application executable.
const Name = "oect"

// Context represents the application context that can be accessed from all commands.
type Context struct {
	Timestamp   string // Timestamp is the time when the application was started.
	OutputDir   string // OutputDir is the directory relative output files are written to, empty for the working directory.
	LogFilePath string // LogFilePath is the path to the log file, empty when logging elsewhere.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true if the application is running in debug mode.
}

// Flag names for flags defined in the root command, but sometimes used in other commands.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagOutputDirName = "output"
	FlagSessionName   = "session"
)

// FlagSession is the session file shared by the process and session commands.
var FlagSession string

// Flag represents a command-line flag with its name and help text.
type Flag struct {
	Name string
	Help string
}

// FlagGroup represents a group of related flags with a group name.
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// WithContext returns ctx carrying appContext.
func WithContext(ctx context.Context, appContext Context) context.Context {
	return context.WithValue(ctx, Context{}, appContext)
}

// FromCommand returns the application context set on the root command.
func FromCommand(cmd *cobra.Command) (Context, error) {
	if ctx := cmd.Root().Context(); ctx != nil {
		if appContext, ok := ctx.Value(Context{}).(Context); ok {
			return appContext, nil
		}
	}
	return Context{}, fmt.Errorf("application context not set for command %s", cmd.Name())
}

// Package session is a subcommand of the root command. It edits the session
// file the process command reads: the selected log files, the normalization
// parameters, and the output settings.
package session

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"oect/internal/app"
	"oect/internal/session"
	"oect/internal/util"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const cmdName = "session"

var examples = []string{
	fmt.Sprintf("  Add files:              $ %s %s add data/run1.txt data/run2.txt", app.Name, cmdName),
	fmt.Sprintf("  Change the parameters:  $ %s %s set --starting-point 100 --standard -400", app.Name, cmdName),
	fmt.Sprintf("  Show the session:       $ %s %s show", app.Name, cmdName),
	fmt.Sprintf("  Start over:             $ %s %s clear", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:     cmdName,
	Short:   "Manage the files and settings used by the process command",
	Example: strings.Join(examples, "\n"),
	GroupID: "primary",
}

var addCmd = &cobra.Command{
	Use:           "add FILE...",
	Short:         "Add log files to the session",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runAdd,
	SilenceErrors: true,
}

var clearCmd = &cobra.Command{
	Use:           "clear",
	Short:         "Remove every file from the session",
	Args:          cobra.NoArgs,
	RunE:          runClear,
	SilenceErrors: true,
}

var setCmd = &cobra.Command{
	Use:           "set",
	Short:         "Change the session's parameters and output settings",
	Args:          cobra.NoArgs,
	RunE:          runSet,
	SilenceErrors: true,
}

var showCmd = &cobra.Command{
	Use:           "show",
	Short:         "Show the session's files and settings",
	Args:          cobra.NoArgs,
	RunE:          runShow,
	SilenceErrors: true,
}

var setOverrides *session.Overrides

func init() {
	setOverrides = session.AddFlags(setCmd.Flags())
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(clearCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := session.Load(app.FlagSession)
	if err != nil {
		return reportError(cmd, err)
	}
	var missing []string
	for _, arg := range args {
		exists, err := util.FileExists(util.ExpandUser(arg))
		if err != nil || !exists {
			missing = append(missing, arg)
		}
	}
	if len(missing) > 0 {
		return reportError(cmd, fmt.Errorf("not a readable file: %s", strings.Join(missing, ", ")))
	}
	added, err := s.AddFiles(args...)
	if err != nil {
		return reportError(cmd, err)
	}
	if err := s.Save(app.FlagSession); err != nil {
		return reportError(cmd, err)
	}
	slog.Info("files added to session", slog.Int("added", added), slog.Int("total", len(s.Files)))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d file(s), %d selected\n", added, len(s.Files))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	s, err := session.Load(app.FlagSession)
	if err != nil {
		return reportError(cmd, err)
	}
	removed := len(s.Files)
	s.ClearFiles()
	if err := s.Save(app.FlagSession); err != nil {
		return reportError(cmd, err)
	}
	slog.Info("session files cleared", slog.Int("removed", removed))
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s)\n", removed)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	s, err := session.Load(app.FlagSession)
	if err != nil {
		return reportError(cmd, err)
	}
	if setOverrides.Apply(s) == 0 {
		return reportError(cmd, fmt.Errorf("no settings given, use one or more of: --%s", strings.Join(session.FlagNames, ", --")))
	}
	if err := s.Validate(); err != nil {
		return reportError(cmd, err)
	}
	if err := s.Save(app.FlagSession); err != nil {
		return reportError(cmd, err)
	}
	renderSettings(cmd.OutOrStdout(), s)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := session.Load(app.FlagSession)
	if err != nil {
		return reportError(cmd, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session file: %s\n", app.FlagSession)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File"})
	for i, file := range s.Files {
		tw.AppendRow(table.Row{i + 1, file})
	}
	if len(s.Files) == 0 {
		tw.AppendRow(table.Row{"", "(none)"})
	}
	fmt.Fprintln(out, tw.Render())
	renderSettings(out, s)
	return nil
}

func renderSettings(out io.Writer, s *session.Session) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Setting", "Value"})
	tw.AppendRows([]table.Row{
		{session.FlagStartingPointName, s.Parameters.StartingPoint},
		{session.FlagStandardName, strconv.FormatFloat(s.Parameters.Standard, 'g', -1, 64)},
		{session.FlagStartLineName, s.Parameters.StartLine},
		{session.FlagTableOutputName, s.TableOutput},
		{session.FlagImageOutputName, s.ImageOutput},
		{session.FlagPlotName, s.SavePlot},
	})
	fmt.Fprintln(out, tw.Render())
}

func reportError(cmd *cobra.Command, err error) error {
	cmd.PrintErrf("Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}

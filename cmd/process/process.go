// Package process is a subcommand of the root command. It normalizes the
// selected log files and writes the merged table and overlay plot.
package process

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"oect/internal/app"
	"oect/internal/progress"
	"oect/internal/session"
	"oect/internal/util"
	"oect/internal/workflow"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cmdName = "process"

var examples = []string{
	fmt.Sprintf("  Process the files in the session:        $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Process files given on the command line: $ %s %s run1.txt run2.txt", app.Name, cmdName),
	fmt.Sprintf("  Use a different reference sample:        $ %s %s --starting-point 100 --standard 0", app.Name, cmdName),
	fmt.Sprintf("  Stop at the first bad file:              $ %s %s --on-error abort", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " [FILE...]",
	Short:         "Normalize log files and write the merged table and plot",
	Long:          "Files given as arguments replace the session's file list for this run only, in the order given. A file named twice is processed twice under distinct labels. Setting flags override the session's values for this run only.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	SilenceErrors: true,
}

var (
	flagOnError     string
	flagReport      string
	flagMetricsFile string
	flagNoProgress  bool

	overrides *session.Overrides
)

const (
	flagOnErrorName     = "on-error"
	flagReportName      = "report"
	flagMetricsFileName = "metrics-file"
	flagNoProgressName  = "no-progress"
)

func init() {
	overrides = session.AddFlags(Cmd.Flags())
	Cmd.Flags().StringVar(&flagOnError, flagOnErrorName, string(workflow.PolicySkip), "")
	Cmd.Flags().StringVar(&flagReport, flagReportName, "", "")
	Cmd.Flags().StringVar(&flagMetricsFile, flagMetricsFileName, "", "")
	Cmd.Flags().BoolVar(&flagNoProgress, flagNoProgressName, false, "")

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s\n\n", cmd.UseLine())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			flagDefault := ""
			if cmd.Flags().Lookup(flag.Name).DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(flag.Name).DefValue)
			}
			cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		flagDefault := ""
		if pf.DefValue != "" {
			flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
		}
		cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
	})
	return nil
}

func getFlagGroups() []app.FlagGroup {
	var groups []app.FlagGroup
	var settingFlags []app.Flag
	for _, name := range session.FlagNames {
		settingFlags = append(settingFlags, app.Flag{Name: name, Help: Cmd.Flags().Lookup(name).Usage})
	}
	groups = append(groups, app.FlagGroup{
		GroupName: "Settings (override the session for this run)",
		Flags:     settingFlags,
	})
	groups = append(groups, app.FlagGroup{
		GroupName: "Run Options",
		Flags: []app.Flag{
			{
				Name: flagOnErrorName,
				Help: fmt.Sprintf("what to do when a file fails, choose from: %s", strings.Join(workflow.ErrorPolicies, ", ")),
			},
			{
				Name: flagReportName,
				Help: "also write a per-file run report to this CSV file",
			},
			{
				Name: flagMetricsFileName,
				Help: "also write run metrics to this file in the Prometheus text format",
			},
			{
				Name: flagNoProgressName,
				Help: "do not show per-file progress",
			},
		},
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !slices.Contains(workflow.ErrorPolicies, flagOnError) {
		return workflow.FlagValidationError(cmd, fmt.Sprintf("%s options are: %s", flagOnErrorName, strings.Join(workflow.ErrorPolicies, ", ")))
	}
	if cmd.Flags().Changed(session.FlagStartingPointName) {
		if v, _ := cmd.Flags().GetInt(session.FlagStartingPointName); v < 0 {
			return workflow.FlagValidationError(cmd, fmt.Sprintf("%s must be 0 or greater", session.FlagStartingPointName))
		}
	}
	if cmd.Flags().Changed(session.FlagStartLineName) {
		if v, _ := cmd.Flags().GetInt(session.FlagStartLineName); v < 1 {
			return workflow.FlagValidationError(cmd, fmt.Sprintf("%s must be 1 or greater", session.FlagStartLineName))
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext, err := app.FromCommand(cmd)
	if err != nil {
		return reportError(cmd, err)
	}
	sess, err := session.Load(app.FlagSession)
	if err != nil {
		return reportError(cmd, err)
	}
	if len(args) > 0 {
		if err := sess.SetFiles(args...); err != nil {
			return reportError(cmd, err)
		}
	}
	overrides.Apply(sess)
	policy, err := workflow.ParseErrorPolicy(flagOnError)
	if err != nil {
		return reportError(cmd, err)
	}
	opts := workflow.Options{
		Policy:    policy,
		OutputDir: appContext.OutputDir,
	}
	var multiSpinner *progress.MultiSpinner
	if !flagNoProgress && len(sess.Files) > 0 {
		multiSpinner = progress.NewMultiSpinner()
		for _, label := range workflow.Labels(sess.Files) {
			if err := multiSpinner.AddSpinner(label); err != nil {
				return reportError(cmd, err)
			}
		}
		multiSpinner.Start()
		opts.Status = multiSpinner.Status
	}
	runReport, err := workflow.Run(sess, opts)
	if multiSpinner != nil {
		multiSpinner.Finish()
	}
	if runReport != nil {
		writeExtras(cmd, runReport, appContext.OutputDir)
	}
	if err != nil {
		var inputErr *workflow.InputError
		if errors.As(err, &inputErr) && len(sess.Files) == 0 {
			err = fmt.Errorf("%w, add files with '%s session add' or pass them as arguments", err, app.Name)
		}
		return reportError(cmd, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), workflow.RenderSummary(runReport))
	if err := runReport.Err(); err != nil {
		return reportError(cmd, err)
	}
	return nil
}

// writeExtras writes the optional run report and metrics file. Failures are
// reported but do not fail the run.
func writeExtras(cmd *cobra.Command, runReport *workflow.RunReport, outputDir string) {
	if flagReport != "" {
		path := util.ResolveOutputPath(outputDir, flagReport)
		if err := workflow.WriteReportCsv(runReport, path); err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
			slog.Warn("failed to write run report", slog.String("file", path), slog.String("error", err.Error()))
		}
	}
	if flagMetricsFile != "" {
		path := util.ResolveOutputPath(outputDir, flagMetricsFile)
		if err := workflow.WriteMetricsFile(runReport, path); err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
			slog.Warn("failed to write metrics file", slog.String("file", path), slog.String("error", err.Error()))
		}
	}
}

func reportError(cmd *cobra.Command, err error) error {
	cmd.PrintErrf("Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}

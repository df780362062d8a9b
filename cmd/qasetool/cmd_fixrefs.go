package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/cleanup"
	"qasetool/internal/logging"
	"qasetool/internal/textfix"
)

var fixRefsCmd = &cobra.Command{
	Use:   "fix-csv-refs",
	Short: "Fix broken CSV file references in test case markdown",
	Long: `Scan every test case in the project for CSV file links rendered as
images (a "!" prefix on the markdown link) and rewrite them as plain
links. Descriptions, pre/postconditions, steps and custom field values
are all checked.

Usage:
  qasetool fix-csv-refs --project CR
  qasetool fix-csv-refs --project CR --dry-run -v`,
	Args: cobra.NoArgs,
	RunE: runFixRefs,
}

func runFixRefs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	project, err := resolveProject(cfg)
	if err != nil {
		return err
	}

	runner := &cleanup.Runner{
		Cases: client.Project(project).Cases(),
		Sweep: &cleanup.Sweep{
			Transform:    textfix.FixCSVRefs,
			CustomFields: true,
		},
		DryRun:  rootFlags.dryRun,
		Verbose: rootFlags.verbose,
		Logger:  logging.New("fix-csv-refs"),
		Out:     cmd.OutOrStdout(),
	}
	stats, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	if stats.Affected == 0 && stats.Total > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo broken CSV references found.")
	}
	return nil
}

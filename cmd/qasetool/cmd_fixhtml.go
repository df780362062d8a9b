package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/cleanup"
	"qasetool/internal/logging"
	"qasetool/internal/textfix"
)

var fixHTMLCmd = &cobra.Command{
	Use:   "fix-html",
	Short: "Strip leftover HTML markup from test case text",
	Long: `Remove HTML tags that survived an import from another tool. Tags are
dropped, surrounding whitespace is collapsed and blank-line runs are
squeezed, across descriptions, pre/postconditions, steps and custom
field values.`,
	Args: cobra.NoArgs,
	RunE: runFixHTML,
}

func runFixHTML(cmd *cobra.Command, args []string) error {
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
			Transform: func(text string) (string, bool) {
				cleaned := textfix.StripHTML(text)
				return cleaned, cleaned != text
			},
			CustomFields: true,
		},
		DryRun:  rootFlags.dryRun,
		Verbose: rootFlags.verbose,
		Logger:  logging.New("fix-html"),
		Out:     cmd.OutOrStdout(),
	}
	stats, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	return nil
}

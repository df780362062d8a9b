package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/cleanup"
	"qasetool/internal/logging"
	"qasetool/internal/textfix"
)

var stripAttachmentsCmd = &cobra.Command{
	Use:   "strip-attachments",
	Short: "Remove dead attachment references from test case text",
	Long: `Delete markdown attachment references pointing at a retired tool's
attachment store (index.php?/attachments/get/... links and inline
![attachment] images). Step actions left empty by the removal are
backfilled with "." so the update passes API validation.`,
	Args: cobra.NoArgs,
	RunE: runStripAttachments,
}

func runStripAttachments(cmd *cobra.Command, args []string) error {
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
				cleaned := textfix.RemoveAttachmentRefs(text)
				return cleaned, cleaned != text
			},
			CustomFields:   true,
			BackfillAction: true,
		},
		DryRun:  rootFlags.dryRun,
		Verbose: rootFlags.verbose,
		Logger:  logging.New("strip-attachments"),
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

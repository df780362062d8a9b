package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/logging"
	"qasetool/internal/purge"
)

var purgeFieldsFlags struct {
	yes bool
}

var purgeFieldsCmd = &cobra.Command{
	Use:   "purge-fields",
	Short: "Delete every custom field definition in the workspace",
	Long: `List all custom fields in the workspace and delete them, including
every value stored on test cases. Used to reset a workspace after a
botched import created throwaway fields.

Deletion is irreversible and asks for confirmation unless --yes is set.`,
	Args: cobra.NoArgs,
	RunE: runPurgeFields,
}

func init() {
	purgeFieldsCmd.Flags().BoolVar(&purgeFieldsFlags.yes, "yes", false, "Skip the confirmation prompt")
}

func runPurgeFields(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	p := &purge.FieldPurge{
		Client: client,
		DryRun: rootFlags.dryRun,
		Logger: logging.New("purge-fields"),
	}

	out := cmd.OutOrStdout()
	fields, err := p.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fmt.Fprintln(out, "No custom fields found. Nothing to delete.")
		return nil
	}

	fmt.Fprintf(out, "Found %d custom field(s):\n", len(fields))
	for _, field := range fields {
		fmt.Fprintf(out, "  - ID: %d, Title: %s\n", field.ID, field.Title)
	}

	if !rootFlags.dryRun && !purgeFieldsFlags.yes {
		prompt := fmt.Sprintf("Delete all %d custom field(s) and their stored values?", len(fields))
		if !confirm(cmd.InOrStdin(), out, prompt) {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}
	}

	stats, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, stats.Summary())
	return nil
}

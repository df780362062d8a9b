package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/logging"
	"qasetool/internal/migrate"
)

var migrateFieldFlags struct {
	source string
	dest   string
	destID int
}

var migrateFieldCmd = &cobra.Command{
	Use:   "migrate-field",
	Short: "Move a system field's content into a custom field",
	Long: `Copy the content of a built-in text field (description,
pre/postconditions) into a custom field on every case that has one,
then clear the source field. Used for one-time schema migrations after
changing how a project organizes its case content.

Usage:
  qasetool migrate-field --project CR --source-field Description --destination-field "Legacy Description"
  qasetool migrate-field --project CR --source-field preconditions --destination-field-id 12 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runMigrateField,
}

func init() {
	f := migrateFieldCmd.Flags()
	f.StringVar(&migrateFieldFlags.source, "source-field", "", "Source system field, by title or slug")
	f.StringVar(&migrateFieldFlags.dest, "destination-field", "", "Destination custom field, by title")
	f.IntVar(&migrateFieldFlags.destID, "destination-field-id", 0, "Destination custom field ID (skips lookup by title)")
}

func runMigrateField(cmd *cobra.Command, args []string) error {
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

	source := migrateFieldFlags.source
	if source == "" {
		source = cfg.SourceField
	}
	if source == "" {
		return fmt.Errorf("source field is required: pass --source-field or set source_field in the config file")
	}
	dest := migrateFieldFlags.dest
	if dest == "" {
		dest = cfg.DestinationField
	}
	destID := migrateFieldFlags.destID
	if destID == 0 {
		destID = cfg.DestinationFieldID
	}
	if dest == "" && destID == 0 {
		return fmt.Errorf("destination field is required: pass --destination-field or set destination_field in the config file")
	}

	m := &migrate.FieldMigration{
		Client:             client,
		Project:            project,
		SourceField:        source,
		DestinationField:   dest,
		DestinationFieldID: destID,
		DryRun:             rootFlags.dryRun,
		Verbose:            rootFlags.verbose,
		Logger:             logging.New("migrate-field"),
		Out:                cmd.OutOrStdout(),
	}
	stats, err := m.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	return nil
}

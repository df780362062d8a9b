package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/logging"
	"qasetool/internal/migrate"
)

var importFieldFlags struct {
	csvPath string
	column  string
	field   string
	fieldID int
}

var importFieldCmd = &cobra.Command{
	Use:   "import-field",
	Short: "Fill a custom field from a CSV export",
	Long: `Read a CSV export (with an ID column of case codes) and write one of
its columns into a custom field on the matching cases. The CSV is the
source of truth: matched cases are always updated. HTML markup in the
values is stripped on the way in.

Usage:
  qasetool import-field --project CR --csv export.csv --column Component --field Component`,
	Args: cobra.NoArgs,
	RunE: runImportField,
}

func init() {
	f := importFieldCmd.Flags()
	f.StringVar(&importFieldFlags.csvPath, "csv", "", "Path to the CSV file")
	f.StringVar(&importFieldFlags.column, "column", "", "CSV column to import")
	f.StringVar(&importFieldFlags.field, "field", "", "Destination custom field, by title")
	f.IntVar(&importFieldFlags.fieldID, "field-id", 0, "Destination custom field ID (skips lookup by title)")
}

func runImportField(cmd *cobra.Command, args []string) error {
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

	if importFieldFlags.csvPath == "" {
		return fmt.Errorf("csv path is required: pass --csv")
	}
	column := importFieldFlags.column
	if column == "" {
		column = cfg.CSVColumn
	}
	if column == "" {
		return fmt.Errorf("csv column is required: pass --column or set csv_column in the config file")
	}
	field := importFieldFlags.field
	if field == "" {
		field = cfg.CSVField
	}
	fieldID := importFieldFlags.fieldID
	if fieldID == 0 {
		fieldID = cfg.CSVFieldID
	}
	if field == "" && fieldID == 0 {
		return fmt.Errorf("destination field is required: pass --field/--field-id or set csv_field in the config file")
	}

	imp := &migrate.CSVImport{
		Client:  client,
		Project: project,
		CSVPath: importFieldFlags.csvPath,
		Column:  column,
		Field:   field,
		FieldID: fieldID,
		DryRun:  rootFlags.dryRun,
		Verbose: rootFlags.verbose,
		Logger:  logging.New("import-field"),
	}
	stats, err := imp.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"qasetool/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	token      string
	project    string
	dryRun     bool
	verbose    bool
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "qasetool",
	Short: "Bulk cleanup and migration for Qase test management projects",
	Long: "Qasetool runs bulk maintenance over Qase projects via the TestOps API:\n" +
		"fixing broken markdown references, migrating field content, linking\n" +
		"JIRA issues and purging leftover workspace entities.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(rootFlags.verbose, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to config file (default: config.json if present)")
	pf.StringVar(&rootFlags.token, "token", "", "Qase API token (overrides config file)")
	pf.StringVar(&rootFlags.project, "project", "", "Qase project code (overrides config file)")
	pf.BoolVar(&rootFlags.dryRun, "dry-run", false, "Analyze and report without making changes")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Show detailed per-case information")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(fixRefsCmd)
	rootCmd.AddCommand(fixHTMLCmd)
	rootCmd.AddCommand(stripAttachmentsCmd)
	rootCmd.AddCommand(migrateFieldCmd)
	rootCmd.AddCommand(linkJiraCmd)
	rootCmd.AddCommand(importFieldCmd)
	rootCmd.AddCommand(purgeAttachmentsCmd)
	rootCmd.AddCommand(purgeFieldsCmd)
	rootCmd.Version = version
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/jiralink"
	"qasetool/internal/logging"
)

var linkJiraFlags struct {
	issueType   string
	batchSize   int
	refsField   string
	refsFieldID int
}

var linkJiraCmd = &cobra.Command{
	Use:   "link-jira",
	Short: "Link JIRA issues referenced in case refs as external issues",
	Long: `Scan every test case's refs for JIRA issue IDs (PROJECT-123, either
bare or inside a browse URL) and attach them through the external issue
integration. Refs are read from a custom field when one named like
"refs" exists, falling back to the built-in refs field.

Attachment runs in batches; a failed batch is retried one case at a
time so a single bad link doesn't block the rest.

Usage:
  qasetool link-jira --project CR
  qasetool link-jira --project CR --type jira-server --batch-size 25 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runLinkJira,
}

func init() {
	f := linkJiraCmd.Flags()
	f.StringVar(&linkJiraFlags.issueType, "type", "", "External issue type: jira-cloud or jira-server (default: jira-cloud)")
	f.IntVar(&linkJiraFlags.batchSize, "batch-size", 0, "Cases per attach request (default: 50)")
	f.StringVar(&linkJiraFlags.refsField, "refs-field", "", "Custom field name holding refs (default: refs)")
	f.IntVar(&linkJiraFlags.refsFieldID, "refs-field-id", 0, "Custom field ID holding refs (skips lookup by name)")
}

func runLinkJira(cmd *cobra.Command, args []string) error {
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

	issueType := linkJiraFlags.issueType
	if issueType == "" {
		issueType = cfg.ExternalIssueType
	}
	batchSize := linkJiraFlags.batchSize
	if batchSize == 0 {
		batchSize = cfg.BatchSize
	}
	refsField := linkJiraFlags.refsField
	if refsField == "" {
		refsField = cfg.JiraRefsField
	}
	if refsField == "" {
		refsField = jiralink.DefaultRefsField
	}
	refsFieldID := linkJiraFlags.refsFieldID
	if refsFieldID == 0 {
		refsFieldID = cfg.JiraRefsFieldID
	}

	linker := &jiralink.Linker{
		Client:      client,
		Project:     project,
		IssueType:   issueType,
		BatchSize:   batchSize,
		RefsField:   refsField,
		RefsFieldID: refsFieldID,
		DryRun:      rootFlags.dryRun,
		Verbose:     rootFlags.verbose,
		Logger:      logging.New("link-jira"),
	}
	stats, err := linker.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qasetool/internal/logging"
	"qasetool/internal/purge"
)

var purgeAttachmentsFlags struct {
	size    int64
	workers int
	yes     bool
}

var purgeAttachmentsCmd = &cobra.Command{
	Use:   "purge-attachments",
	Short: "Delete all workspace attachments of an exact byte size",
	Long: `List every attachment in the workspace and delete the ones whose size
matches --size exactly. Byte size is the only selector the attachment
list offers, which is enough to clear an artifact a bulk import
duplicated thousands of times.

Deletion is irreversible and asks for confirmation unless --yes is set.

Usage:
  qasetool purge-attachments --size 157010
  qasetool purge-attachments --size 157010 --workers 20 --yes`,
	Args: cobra.NoArgs,
	RunE: runPurgeAttachments,
}

func init() {
	f := purgeAttachmentsCmd.Flags()
	f.Int64Var(&purgeAttachmentsFlags.size, "size", 0, "Exact attachment size in bytes (required)")
	f.IntVar(&purgeAttachmentsFlags.workers, "workers", purge.DefaultWorkers, "Concurrent delete requests")
	f.BoolVar(&purgeAttachmentsFlags.yes, "yes", false, "Skip the confirmation prompt")
	purgeAttachmentsCmd.MarkFlagRequired("size")
}

func runPurgeAttachments(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	p := &purge.AttachmentPurge{
		Client:  client,
		Size:    purgeAttachmentsFlags.size,
		Workers: purgeAttachmentsFlags.workers,
		DryRun:  rootFlags.dryRun,
		Logger:  logging.New("purge-attachments"),
	}

	out := cmd.OutOrStdout()
	matching, checked, err := p.Matching(cmd.Context())
	if err != nil {
		return err
	}
	if len(matching) == 0 {
		fmt.Fprintf(out, "No attachments found with size %d (checked %d).\n", p.Size, checked)
		return nil
	}

	fmt.Fprintf(out, "Found %d attachment(s) with size %d:\n", len(matching), p.Size)
	for i, att := range matching {
		if i == 10 {
			fmt.Fprintf(out, "  ... and %d more\n", len(matching)-10)
			break
		}
		fmt.Fprintf(out, "  - %s (%s, %d bytes)\n", att.Hash, att.File, att.Size)
	}

	if !rootFlags.dryRun && !purgeAttachmentsFlags.yes {
		prompt := fmt.Sprintf("Delete all %d attachment(s) with size %d?", len(matching), p.Size)
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

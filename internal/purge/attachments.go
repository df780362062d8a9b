// Package purge bulk-deletes workspace entities: attachments matching a
// size filter and custom field definitions. Both operations are
// destructive and sit behind an explicit confirmation in the CLI.
package purge

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"qasetool/internal/qase"
)

// DefaultWorkers is the attachment deletion concurrency.
const DefaultWorkers = 10

// AttachmentPurge deletes every workspace attachment of an exact size.
// Bulk imports tend to duplicate one broken artifact thousands of times,
// and byte size is the only selector the attachment list offers.
type AttachmentPurge struct {
	Client *qase.Client

	// Size is the exact byte size to match.
	Size int64

	// Workers caps concurrent delete calls.
	Workers int

	DryRun bool
	Logger *slog.Logger
}

// AttachmentStats summarizes one purge run.
type AttachmentStats struct {
	Checked int
	Matched int
	Deleted int
	Failed  int
}

// Matching lists the attachments the purge would delete.
func (p *AttachmentPurge) Matching(ctx context.Context) ([]qase.Attachment, int, error) {
	attachments, err := p.Client.Attachments().ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch attachments: %w", err)
	}

	var matching []qase.Attachment
	for _, att := range attachments {
		if att.Size == p.Size {
			matching = append(matching, att)
		}
	}
	return matching, len(attachments), nil
}

// Run deletes the matching attachments with a bounded worker pool.
// Individual failures are counted; the pool keeps going.
func (p *AttachmentPurge) Run(ctx context.Context) (*AttachmentStats, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	matching, checked, err := p.Matching(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AttachmentStats{Checked: checked, Matched: len(matching)}
	logger.InfoContext(ctx, "purging attachments",
		"checked", checked, "matched", len(matching), "size", p.Size,
		"workers", workers, "dry_run", p.DryRun)

	if p.DryRun {
		for _, att := range matching {
			logger.InfoContext(ctx, "would delete attachment",
				"hash", att.Hash, "file", att.File, "size", att.Size)
		}
		stats.Deleted = len(matching)
		return stats, nil
	}

	var deleted, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, att := range matching {
		g.Go(func() error {
			if err := p.Client.Attachments().Delete(ctx, att.Hash); err != nil {
				failed.Add(1)
				logger.ErrorContext(ctx, "delete failed", "hash", att.Hash, "error", err)
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Deleted = int(deleted.Load())
	stats.Failed = int(failed.Load())
	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *AttachmentStats) Summary() string {
	return fmt.Sprintf(
		"Attachments checked: %d\nMatched: %d\nDeleted: %d\nFailed: %d",
		s.Checked, s.Matched, s.Deleted, s.Failed)
}

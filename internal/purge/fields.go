package purge

import (
	"context"
	"fmt"
	"log/slog"

	"qasetool/internal/qase"
)

// FieldPurge deletes every custom field definition in the workspace,
// including all stored values. Used to reset a workspace after a botched
// import created dozens of throwaway fields.
type FieldPurge struct {
	Client *qase.Client
	DryRun bool
	Logger *slog.Logger
}

// FieldStats summarizes one field purge run.
type FieldStats struct {
	Found   int
	Deleted int
	Failed  int
}

// List returns the custom fields the purge would delete.
func (p *FieldPurge) List(ctx context.Context) ([]qase.CustomField, error) {
	fields, err := p.Client.CustomFields().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch custom fields: %w", err)
	}
	return fields, nil
}

// Run deletes the fields one at a time. Field deletion cascades to every
// stored value, so the calls run sequentially to keep the API happy.
func (p *FieldPurge) Run(ctx context.Context) (*FieldStats, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fields, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &FieldStats{Found: len(fields)}
	logger.InfoContext(ctx, "purging custom fields", "found", len(fields), "dry_run", p.DryRun)

	for _, field := range fields {
		if p.DryRun {
			logger.InfoContext(ctx, "would delete custom field", "id", field.ID, "title", field.Title)
			stats.Deleted++
			continue
		}
		if err := p.Client.CustomFields().Delete(ctx, field.ID); err != nil {
			stats.Failed++
			logger.ErrorContext(ctx, "delete failed", "id", field.ID, "title", field.Title, "error", err)
			continue
		}
		stats.Deleted++
		logger.InfoContext(ctx, "deleted custom field", "id", field.ID, "title", field.Title)
	}

	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *FieldStats) Summary() string {
	return fmt.Sprintf("Custom fields found: %d\nDeleted: %d\nFailed: %d",
		s.Found, s.Deleted, s.Failed)
}

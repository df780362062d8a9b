// Package migrate moves test case content between fields: from a system
// text field into a custom field (one-time schema migrations) and from
// CSV exports back into case fields.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"qasetool/internal/display"
	"qasetool/internal/qase"
)

// FieldMigration copies a system field's content into a custom field on
// every case that has one, then clears the system field.
type FieldMigration struct {
	Client *qase.Client

	Project string

	// SourceField is the system field to drain, by title or slug.
	SourceField string

	// DestinationField is the custom field to fill, by title. Ignored
	// when DestinationFieldID is set.
	DestinationField   string
	DestinationFieldID int

	DryRun  bool
	Verbose bool
	Logger  *slog.Logger
	Out     io.Writer
}

// Stats summarizes one migration run.
type Stats struct {
	Total    int
	Needed   int
	Migrated int
	Errors   int
	Skipped  int
}

// ResolveSourceSlug maps the configured source field name to its system
// field slug. Matching is exact first, then case-insensitive on title or
// slug.
func (m *FieldMigration) ResolveSourceSlug(ctx context.Context) (string, error) {
	fields, err := m.Client.SystemFields().List(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch system fields: %w", err)
	}

	for _, field := range fields {
		if field.Title == m.SourceField ||
			strings.EqualFold(field.Title, m.SourceField) ||
			strings.EqualFold(field.Slug, m.SourceField) {
			return field.Slug, nil
		}
	}
	return "", fmt.Errorf("system field %q not found", m.SourceField)
}

// ResolveDestinationID maps the configured destination field name to its
// custom field ID, unless an explicit ID was configured.
func (m *FieldMigration) ResolveDestinationID(ctx context.Context) (int, error) {
	if m.DestinationFieldID != 0 {
		return m.DestinationFieldID, nil
	}

	fields, err := m.Client.CustomFields().ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch custom fields: %w", err)
	}

	for _, field := range fields {
		if field.Title == m.DestinationField || strings.EqualFold(field.Title, m.DestinationField) {
			return field.ID, nil
		}
	}
	return 0, fmt.Errorf("custom field %q not found", m.DestinationField)
}

// Run migrates every case in the project. Cases with an empty source
// field are left alone; cases with content get the value copied to the
// destination custom field and the source cleared in a single update.
func (m *FieldMigration) Run(ctx context.Context) (*Stats, error) {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := m.Out
	if out == nil {
		out = io.Discard
	}

	slug, err := m.ResolveSourceSlug(ctx)
	if err != nil {
		return nil, err
	}
	destID, err := m.ResolveDestinationID(ctx)
	if err != nil {
		return nil, err
	}

	cases, err := m.Client.Project(m.Project).Cases().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}

	stats := &Stats{Total: len(cases)}
	logger.InfoContext(ctx, "starting field migration",
		"total", stats.Total, "source_slug", slug, "destination_id", destID, "dry_run", m.DryRun)

	progress := display.NewProgress(out, stats.Total)
	caseScope := m.Client.Project(m.Project).Cases()

	for i := range cases {
		tc := &cases[i]

		value, ok := tc.FieldBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("system field slug %q is not a migratable text field", slug)
		}

		if strings.TrimSpace(value) != "" {
			stats.Needed++

			// Copy to destination and clear the source in one update. The
			// source is cleared even when the destination already holds
			// the value: leaving it set would re-trigger the migration.
			update := &qase.CaseUpdate{}
			update.SetCustomField(destID, value)
			if err := update.SetField(slug, ""); err != nil {
				return nil, err
			}

			if m.Verbose {
				logger.InfoContext(ctx, "case needs migration",
					"case_id", tc.ID, "title", tc.Title, "value_len", len(value))
			}

			if m.DryRun {
				stats.Migrated++
			} else if err := caseScope.Update(ctx, tc.ID, update); err != nil {
				stats.Errors++
				logger.ErrorContext(ctx, "migration failed", "case_id", tc.ID, "error", err)
			} else {
				stats.Migrated++
			}
		}

		// Verbose mode interleaves per-case log lines, so the bar only
		// redraws every 10th case to keep the output readable.
		if !m.Verbose || i == 0 || (i+1)%10 == 0 || i+1 == stats.Total {
			progress.Update(i+1, fmt.Sprintf(
				"Needs migration: %d, Migrated: %d, Errors: %d, Skipped: %d",
				stats.Needed, stats.Migrated, stats.Errors, stats.Skipped))
		}
	}

	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total test cases: %d\n", s.Total)
	fmt.Fprintf(&b, "Cases needing migration: %d\n", s.Needed)
	fmt.Fprintf(&b, "Cases migrated: %d\n", s.Migrated)
	fmt.Fprintf(&b, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(&b, "Errors: %d", s.Errors)
	return b.String()
}

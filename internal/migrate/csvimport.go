package migrate

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"qasetool/internal/qase"
	"qasetool/internal/textfix"
)

// CSVImport pushes values from a CSV export into a custom field. The CSV
// is the source of truth: matched cases are always updated, even when
// the field already holds the same value.
type CSVImport struct {
	Client  *qase.Client
	Project string

	// CSVPath is the file to import. The file needs an "ID" column with
	// case codes and a value column named by Column.
	CSVPath string
	Column  string

	// Field selects the destination custom field by title; FieldID wins
	// when set.
	Field   string
	FieldID int

	DryRun  bool
	Verbose bool
	Logger  *slog.Logger
}

// ImportStats summarizes one CSV import run.
type ImportStats struct {
	Rows     int
	Matched  int
	Updated  int
	NotFound int
	Errors   int
}

// LoadRows reads the CSV file into a case-code → value map. Values are
// stripped of HTML markup carried over from the exporting tool.
func (imp *CSVImport) LoadRows() (map[string]string, error) {
	f, err := os.Open(imp.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idCol, valueCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "ID":
			idCol = i
		case imp.Column:
			valueCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("csv has no ID column (columns: %s)", strings.Join(header, ", "))
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("csv column %q not found (columns: %s)", imp.Column, strings.Join(header, ", "))
	}

	rows := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if idCol >= len(record) || valueCol >= len(record) {
			continue
		}
		code := strings.TrimSpace(record[idCol])
		if code == "" {
			continue
		}
		value := textfix.StripHTML(strings.TrimSpace(record[valueCol]))
		rows[code] = value
	}
	return rows, nil
}

// ResolveFieldID maps the configured field title to its custom field ID,
// unless an explicit ID was configured.
func (imp *CSVImport) ResolveFieldID(ctx context.Context) (int, error) {
	if imp.FieldID != 0 {
		return imp.FieldID, nil
	}

	fields, err := imp.Client.CustomFields().ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch custom fields: %w", err)
	}
	for _, field := range fields {
		if field.Title == imp.Field || strings.EqualFold(field.Title, imp.Field) {
			return field.ID, nil
		}
	}
	return 0, fmt.Errorf("custom field %q not found", imp.Field)
}

// Run matches CSV rows to project cases and writes the field values.
// Case codes are matched with and without the "C" prefix, since exports
// disagree on whether IDs read "123" or "C123".
func (imp *CSVImport) Run(ctx context.Context) (*ImportStats, error) {
	logger := imp.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := imp.LoadRows()
	if err != nil {
		return nil, err
	}
	stats := &ImportStats{Rows: len(rows)}
	if len(rows) == 0 {
		return stats, nil
	}

	fieldID, err := imp.ResolveFieldID(ctx)
	if err != nil {
		return nil, err
	}

	caseScope := imp.Client.Project(imp.Project).Cases()
	cases, err := caseScope.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}

	byCode := make(map[string]*qase.TestCase)
	for i := range cases {
		tc := &cases[i]
		code := strconv.Itoa(tc.ID)
		byCode[code] = tc
		byCode["C"+code] = tc
	}

	logger.InfoContext(ctx, "importing field values from csv",
		"rows", stats.Rows, "cases", len(cases), "field_id", fieldID, "dry_run", imp.DryRun)

	for code, value := range rows {
		tc := byCode[code]
		if tc == nil && strings.HasPrefix(code, "C") {
			tc = byCode[strings.TrimPrefix(code, "C")]
		}
		if tc == nil {
			tc = byCode["C"+code]
		}
		if tc == nil {
			stats.NotFound++
			if imp.Verbose {
				logger.WarnContext(ctx, "case not found in project", "code", code)
			}
			continue
		}

		stats.Matched++
		update := &qase.CaseUpdate{}
		update.SetCustomField(fieldID, value)

		if imp.Verbose {
			current, _ := tc.CustomFieldValue(fieldID)
			logger.InfoContext(ctx, "updating case field",
				"code", code, "case_id", tc.ID, "title", tc.Title,
				"current_len", len(current), "new_len", len(value))
		}

		if imp.DryRun {
			stats.Updated++
		} else if err := caseScope.Update(ctx, tc.ID, update); err != nil {
			stats.Errors++
			logger.ErrorContext(ctx, "update failed", "code", code, "case_id", tc.ID, "error", err)
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *ImportStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CSV rows: %d\n", s.Rows)
	fmt.Fprintf(&b, "Matched cases: %d\n", s.Matched)
	fmt.Fprintf(&b, "Updated: %d\n", s.Updated)
	fmt.Fprintf(&b, "Not found: %d\n", s.NotFound)
	fmt.Fprintf(&b, "Errors: %d", s.Errors)
	return b.String()
}

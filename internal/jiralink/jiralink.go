// Package jiralink scans test case refs for JIRA issue IDs and attaches
// them as external issues in batches. Refs live either in a custom field
// or in the built-in refs field, depending on how the project was
// imported.
package jiralink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"qasetool/internal/qase"
	"qasetool/internal/textfix"
)

const (
	// DefaultIssueType selects the tracker integration on attach.
	DefaultIssueType = "jira-cloud"

	// DefaultBatchSize is how many case links go into one attach call.
	DefaultBatchSize = 50

	// DefaultRefsField is the custom field name searched for refs.
	DefaultRefsField = "refs"
)

// Linker links JIRA issues referenced in case refs to the cases.
type Linker struct {
	Client  *qase.Client
	Project string

	// IssueType is the tracker integration, "jira-cloud" or "jira-server".
	IssueType string

	// BatchSize caps the links per attach request.
	BatchSize int

	// RefsField names the custom field holding refs. RefsFieldID wins
	// when set; when neither resolves, the built-in refs field is used.
	RefsField   string
	RefsFieldID int

	DryRun  bool
	Verbose bool
	Logger  *slog.Logger
}

// Stats summarizes one linking run.
type Stats struct {
	Total         int
	WithRefs      int
	WithoutRefs   int
	WithIssues    int
	IssueMentions int // total occurrences, duplicates included
	UniqueIssues  int
	Attached      int
	Batches       int
	Errors        int
}

// ResolveRefsFieldID finds the custom field holding refs. It returns 0
// when no custom field matches, which falls back to the system refs
// field. Besides the configured name, "references" and "refs" are tried:
// imports from different tools named the field differently.
func (l *Linker) ResolveRefsFieldID(ctx context.Context) (int, error) {
	if l.RefsFieldID != 0 {
		return l.RefsFieldID, nil
	}

	fields, err := l.Client.CustomFields().ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch custom fields: %w", err)
	}

	names := []string{l.RefsField, "references", "refs"}
	for _, field := range fields {
		for _, name := range names {
			if name == "" {
				continue
			}
			if field.Title == name || strings.EqualFold(field.Title, name) {
				return field.ID, nil
			}
		}
	}
	return 0, nil
}

// caseRefs returns the refs text values for one case and whether the
// case has a refs field at all. A custom refs field counts as present
// even when its value is blank; extraction then falls through to the
// system fields. Some imports stored system refs under "references"
// instead of "refs".
func caseRefs(tc *qase.TestCase, refsFieldID int) (refs []string, present bool) {
	if refsFieldID != 0 {
		if value, ok := tc.CustomFieldValue(refsFieldID); ok {
			present = true
			if value != "" {
				return []string{value}, true
			}
		}
	}
	if len(tc.Refs) > 0 {
		return tc.Refs, true
	}
	if len(tc.References) > 0 {
		return tc.References, true
	}
	return nil, present
}

// Run extracts JIRA issue IDs from every case's refs and attaches them
// in batches. A failed batch is retried one case at a time so a single
// bad link doesn't sink its batchmates.
func (l *Linker) Run(ctx context.Context) (*Stats, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	issueType := l.IssueType
	if issueType == "" {
		issueType = DefaultIssueType
	}
	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	refsFieldID, err := l.ResolveRefsFieldID(ctx)
	if err != nil {
		return nil, err
	}
	if refsFieldID != 0 {
		logger.InfoContext(ctx, "using custom refs field", "field_id", refsFieldID)
	} else {
		logger.InfoContext(ctx, "no custom refs field, using system refs")
	}

	cases, err := l.Client.Project(l.Project).Cases().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}

	stats := &Stats{Total: len(cases)}
	unique := make(map[string]struct{})
	var links []qase.CaseLink

	for i := range cases {
		tc := &cases[i]
		refs, hasRefs := caseRefs(tc, refsFieldID)
		if !hasRefs {
			stats.WithoutRefs++
			continue
		}
		stats.WithRefs++

		var ids []string
		seen := make(map[string]struct{})
		for _, ref := range refs {
			for _, id := range textfix.ExtractJiraIDs(ref) {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}

		stats.WithIssues++
		stats.IssueMentions += len(ids)
		for _, id := range ids {
			unique[id] = struct{}{}
		}
		links = append(links, qase.CaseLink{CaseID: tc.ID, ExternalIssues: ids})

		if l.Verbose {
			logger.InfoContext(ctx, "case references jira issues",
				"case_id", tc.ID, "title", tc.Title, "issues", strings.Join(ids, ","))
		}
	}
	stats.UniqueIssues = len(unique)

	if len(links) == 0 {
		logger.InfoContext(ctx, "no jira issues found in any test case")
		return stats, nil
	}

	scope := l.Client.Project(l.Project).ExternalIssues()
	var failed [][]qase.CaseLink

	for start := 0; start < len(links); start += batchSize {
		end := min(start+batchSize, len(links))
		batch := links[start:end]

		if l.DryRun {
			logger.InfoContext(ctx, "would attach batch",
				"batch", start/batchSize+1, "cases", len(batch))
			stats.Attached += len(batch)
			stats.Batches++
			continue
		}

		if err := scope.Attach(ctx, issueType, batch); err != nil {
			logger.WarnContext(ctx, "batch attach failed, will retry per case",
				"batch", start/batchSize+1, "cases", len(batch), "error", err)
			failed = append(failed, batch)
			continue
		}
		stats.Attached += len(batch)
		stats.Batches++
	}

	for _, batch := range failed {
		for _, link := range batch {
			if err := scope.Attach(ctx, issueType, []qase.CaseLink{link}); err != nil {
				stats.Errors++
				logger.ErrorContext(ctx, "attach failed",
					"case_id", link.CaseID, "issues", strings.Join(link.ExternalIssues, ","), "error", err)
				continue
			}
			stats.Attached++
		}
	}

	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total test cases: %d\n", s.Total)
	fmt.Fprintf(&b, "Cases with refs: %d\n", s.WithRefs)
	fmt.Fprintf(&b, "Cases with JIRA issues: %d\n", s.WithIssues)
	fmt.Fprintf(&b, "JIRA issue mentions: %d\n", s.IssueMentions)
	fmt.Fprintf(&b, "Unique JIRA issues: %d\n", s.UniqueIssues)
	fmt.Fprintf(&b, "Cases attached: %d\n", s.Attached)
	fmt.Fprintf(&b, "Batches attached: %d\n", s.Batches)
	fmt.Fprintf(&b, "Errors: %d", s.Errors)
	return b.String()
}

package cleanup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"qasetool/internal/display"
	"qasetool/internal/qase"
)

// Stats summarizes one sweep over a project.
type Stats struct {
	Total    int // test cases examined
	Affected int // cases that needed a fix
	Fixed    int // cases updated (or would be, in dry-run)
	Errors   int // update calls that failed
}

// Runner executes a Sweep against every test case in a project.
type Runner struct {
	Cases   *qase.CaseScope
	Sweep   *Sweep
	DryRun  bool
	Verbose bool
	Logger  *slog.Logger
	Out     io.Writer // progress output, typically os.Stdout
}

// Run fetches all cases, analyzes each one and applies the resulting
// updates. Update failures are counted, not fatal: one broken case must
// not abort a sweep over thousands.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	cases, err := r.Cases.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}

	stats := &Stats{Total: len(cases)}
	logger.InfoContext(ctx, "analyzing test cases", "total", stats.Total, "dry_run", r.DryRun)

	progress := display.NewProgress(out, stats.Total)

	for i := range cases {
		tc := &cases[i]
		update := r.Sweep.Analyze(tc)

		if update != nil {
			stats.Affected++
			if r.Verbose {
				logger.InfoContext(ctx, "case needs fixing",
					"case_id", tc.ID, "title", tc.Title,
					"fields", strings.Join(update.Fields(), ","))
			}

			if r.DryRun {
				// Dry run counts the case as fixed so the summary shows
				// what a real run would do.
				stats.Fixed++
			} else if err := r.Cases.Update(ctx, tc.ID, update); err != nil {
				stats.Errors++
				logger.ErrorContext(ctx, "update failed", "case_id", tc.ID, "error", err)
			} else {
				stats.Fixed++
			}
		}

		progress.Update(i+1, fmt.Sprintf("Fixed: %d, Errors: %d", stats.Fixed, stats.Errors))
	}

	return stats, nil
}

// Summary renders the closing stats block for terminal output.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total test cases: %d\n", s.Total)
	fmt.Fprintf(&b, "Cases needing fixes: %d\n", s.Affected)
	fmt.Fprintf(&b, "Cases fixed: %d\n", s.Fixed)
	fmt.Fprintf(&b, "Errors: %d", s.Errors)
	return b.String()
}

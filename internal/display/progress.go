// Package display renders single-line terminal progress for long sweeps.
package display

import (
	"fmt"
	"io"
	"strings"
)

const barLength = 40

// Progress draws an in-place progress bar by rewriting the current line
// with \r. Suffix text (running counters) is appended after the bar.
type Progress struct {
	w     io.Writer
	total int
}

// NewProgress creates a progress bar over total items writing to w.
func NewProgress(w io.Writer, total int) *Progress {
	return &Progress{w: w, total: total}
}

// Update redraws the bar at current items done. The suffix is printed
// after the counter, e.g. "Fixed: 3, Errors: 0".
func (p *Progress) Update(current int, suffix string) {
	if p.total == 0 {
		return
	}
	percent := float64(current) / float64(p.total) * 100
	filled := barLength * current / p.total
	var bar string
	if filled >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filled) + ">" + strings.Repeat("-", barLength-filled-1)
	}

	fmt.Fprintf(p.w, "\rProgress: [%s] %.1f%% (%d/%d)", bar, percent, current, p.total)
	if suffix != "" {
		fmt.Fprintf(p.w, " | %s", suffix)
	}
	if current == p.total {
		fmt.Fprintln(p.w)
	}
}

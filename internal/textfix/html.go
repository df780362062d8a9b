package textfix

import (
	"regexp"
	"strings"
)

var (
	htmlTag     = regexp.MustCompile(`<[^>]+>`)
	innerSpaces = regexp.MustCompile(`[ \t]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes HTML tags while preserving line structure: tags are
// dropped, runs of spaces within a line collapse to one, lines are trimmed,
// and more than two consecutive newlines collapse to two.
func StripHTML(text string) string {
	if text == "" {
		return text
	}

	text = htmlTag.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = innerSpaces.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}

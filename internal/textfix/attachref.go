package textfix

import (
	"regexp"
	"strings"
)

// Attachment references come in two forms left behind by a TestRail import:
// a linked thumbnail pointing at the legacy index.php download route, and a
// bare inline image with "attachment" alt text.
var (
	linkedAttachmentRef = regexp.MustCompile(`\[!\[attachment\]\([^)]+\)\]\(index\.php\?/attachments/get/\d+\)`)
	inlineAttachmentRef = regexp.MustCompile(`!\[attachment\]\([^)]+\)`)

	spaceRuns = regexp.MustCompile(` +`)
)

// RemoveAttachmentRefs deletes attachment reference markup from text and
// tidies the whitespace the removal leaves behind.
func RemoveAttachmentRefs(text string) string {
	if text == "" {
		return text
	}

	text = linkedAttachmentRef.ReplaceAllString(text, "")
	text = inlineAttachmentRef.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = spaceRuns.ReplaceAllString(line, " ")
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}

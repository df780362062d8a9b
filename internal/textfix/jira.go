package textfix

import "regexp"

var jiraIssueID = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-\d+)\b`)

// ExtractJiraIDs returns the JIRA issue IDs (PROJECT-123) found in text,
// deduplicated in first-seen order. Works on both plain IDs and issue URLs.
func ExtractJiraIDs(text string) []string {
	if text == "" {
		return nil
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, m := range jiraIssueID.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		ids = append(ids, m)
	}
	return ids
}

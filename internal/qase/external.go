package qase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ExternalIssueScope links test cases to issues in an external tracker.
type ExternalIssueScope struct {
	client *Client
	code   string
}

// Attach links the given cases to their external issues. The issueType
// selects the tracker integration, e.g. "jira-cloud" or "jira-server".
func (s *ExternalIssueScope) Attach(ctx context.Context, issueType string, links []CaseLink) error {
	if len(links) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string]any{"links": links})
	if err != nil {
		return fmt.Errorf("attach external issues: marshal payload: %w", err)
	}
	s.client.logger.DebugContext(ctx, "attaching external issues",
		"project", s.code, "type", issueType, "links", len(links))
	url := fmt.Sprintf("%s/external-issue/%s/attach", s.client.baseURL, issueType)
	return s.client.doJSON(ctx, http.MethodPost, url, "attach external issues", bytes.NewReader(payload), nil)
}

package qase

import (
	"context"
	"fmt"
	"net/http"
)

// Attachments returns a scope for workspace-level attachment operations.
func (c *Client) Attachments() *AttachmentScope {
	return &AttachmentScope{client: c}
}

// AttachmentScope provides attachment operations. Attachments are
// workspace-scoped and addressed by content hash.
type AttachmentScope struct {
	client *Client
}

// ListAll fetches metadata for every attachment in the workspace.
func (s *AttachmentScope) ListAll(ctx context.Context) ([]Attachment, error) {
	urlFn := func(limit, offset int) string {
		return fmt.Sprintf("%s/attachment?limit=%d&offset=%d", s.client.baseURL, limit, offset)
	}
	return listAll[Attachment](ctx, s.client, urlFn, "list attachments")
}

// Delete removes an attachment by its content hash.
func (s *AttachmentScope) Delete(ctx context.Context, hash string) error {
	url := fmt.Sprintf("%s/attachment/%s", s.client.baseURL, hash)
	return s.client.doJSON(ctx, http.MethodDelete, url, "delete attachment", nil, nil)
}

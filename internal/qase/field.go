package qase

import (
	"context"
	"fmt"
	"net/http"
)

// CustomFields returns a scope for workspace-level custom field operations.
func (c *Client) CustomFields() *CustomFieldScope {
	return &CustomFieldScope{client: c}
}

// SystemFields returns a scope for built-in case field definitions.
func (c *Client) SystemFields() *SystemFieldScope {
	return &SystemFieldScope{client: c}
}

// CustomFieldScope provides custom field operations. Custom fields are
// workspace-scoped, not project-scoped.
type CustomFieldScope struct {
	client *Client
}

// ListAll fetches every custom field definition in the workspace.
func (s *CustomFieldScope) ListAll(ctx context.Context) ([]CustomField, error) {
	urlFn := func(limit, offset int) string {
		return fmt.Sprintf("%s/custom_field?limit=%d&offset=%d", s.client.baseURL, limit, offset)
	}
	return listAll[CustomField](ctx, s.client, urlFn, "list custom fields")
}

// Delete removes a custom field definition and all of its stored values.
func (s *CustomFieldScope) Delete(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/custom_field/%d", s.client.baseURL, id)
	return s.client.doJSON(ctx, http.MethodDelete, url, "delete custom field", nil, nil)
}

// SystemFieldScope provides read access to built-in field definitions.
type SystemFieldScope struct {
	client *Client
}

// List fetches the system field definitions. The endpoint is not paginated
// and returns a bare array in the result.
func (s *SystemFieldScope) List(ctx context.Context) ([]SystemField, error) {
	url := s.client.baseURL + "/system_field"
	var fields []SystemField
	if err := s.client.doJSON(ctx, http.MethodGet, url, "list system fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

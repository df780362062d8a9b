package qase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProjectScope provides access to entities under a single project code.
type ProjectScope struct {
	client *Client
	code   string
}

// Code returns the project code this scope is bound to.
func (p *ProjectScope) Code() string { return p.code }

// Cases returns a scope for test case operations in this project.
func (p *ProjectScope) Cases() *CaseScope {
	return &CaseScope{client: p.client, code: p.code}
}

// ExternalIssues returns a scope for external issue links in this project.
func (p *ProjectScope) ExternalIssues() *ExternalIssueScope {
	return &ExternalIssueScope{client: p.client, code: p.code}
}

// CaseScope provides test case operations for one project.
type CaseScope struct {
	client *Client
	code   string
}

// List fetches one page of test cases.
func (s *CaseScope) List(ctx context.Context, limit, offset int) ([]TestCase, int, error) {
	url := fmt.Sprintf("%s/case/%s?limit=%d&offset=%d", s.client.baseURL, s.code, limit, offset)
	var page paged[TestCase]
	if err := s.client.doJSON(ctx, http.MethodGet, url, "list cases", nil, &page); err != nil {
		return nil, 0, err
	}
	return page.Entities, page.Total, nil
}

// ListAll fetches every test case in the project, paging as needed.
func (s *CaseScope) ListAll(ctx context.Context) ([]TestCase, error) {
	urlFn := func(limit, offset int) string {
		return fmt.Sprintf("%s/case/%s?limit=%d&offset=%d", s.client.baseURL, s.code, limit, offset)
	}
	return listAll[TestCase](ctx, s.client, urlFn, "list cases")
}

// Get fetches a single test case by ID.
func (s *CaseScope) Get(ctx context.Context, id int) (*TestCase, error) {
	url := fmt.Sprintf("%s/case/%s/%d", s.client.baseURL, s.code, id)
	var tc TestCase
	if err := s.client.doJSON(ctx, http.MethodGet, url, "get case", nil, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// Update applies a partial update to a test case.
func (s *CaseScope) Update(ctx context.Context, id int, update *CaseUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("update case: marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/case/%s/%d", s.client.baseURL, s.code, id)
	return s.client.doJSON(ctx, http.MethodPatch, url, "update case", bytes.NewReader(payload), nil)
}

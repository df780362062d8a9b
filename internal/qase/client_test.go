package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, "test-token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func writeResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status": true,
		"result": result,
	}); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "token"); err == nil {
		t.Error("expected error for empty baseURL")
	}
	if _, err := New("https://api.qase.io/v1", ""); err == nil {
		t.Error("expected error for empty token")
	}
	client, err := New("https://api.qase.io/v1/", "token", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.baseURL != "https://api.qase.io/v1" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
}

func TestCases_ListAll_Paginates(t *testing.T) {
	var offsets []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Token"); got != "test-token" {
			t.Errorf("Token header = %q, want test-token", got)
		}
		if r.URL.Path != "/case/DEMO" {
			t.Errorf("path = %q, want /case/DEMO", r.URL.Path)
		}
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		switch offset {
		case "0":
			writeResult(t, w, map[string]any{
				"total": 3, "filtered": 3, "count": 2,
				"entities": []map[string]any{
					{"id": 1, "title": "first"},
					{"id": 2, "title": "second"},
				},
			})
		case "2":
			writeResult(t, w, map[string]any{
				"total": 3, "filtered": 3, "count": 1,
				"entities": []map[string]any{
					{"id": 3, "title": "third"},
				},
			})
		default:
			t.Errorf("unexpected offset %q", offset)
		}
	})
	client, _ := newTestClient(t, handler)

	cases, err := client.Project("DEMO").Cases().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(cases) != 3 {
		t.Fatalf("got %d cases, want 3", len(cases))
	}
	if diff := cmp.Diff([]string{"0", "2"}, offsets); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	if cases[2].ID != 3 || cases[2].Title != "third" {
		t.Errorf("last case = %+v, want id=3 title=third", cases[2])
	}
}

func TestCases_ListAll_EmptyProject(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResult(t, w, map[string]any{
			"total": 0, "filtered": 0, "count": 0,
			"entities": []map[string]any{},
		})
	})
	client, _ := newTestClient(t, handler)

	cases, err := client.Project("DEMO").Cases().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("got %d cases, want 0", len(cases))
	}
}

func TestCases_Update_SendsPatch(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		writeResult(t, w, map[string]any{"id": 42})
	})
	client, _ := newTestClient(t, handler)

	desc := "fixed text"
	update := &CaseUpdate{Description: &desc}
	update.SetCustomField(7, "migrated")
	if err := client.Project("DEMO").Cases().Update(context.Background(), 42, update); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/case/DEMO/42" {
		t.Errorf("path = %q, want /case/DEMO/42", gotPath)
	}
	want := map[string]any{
		"description":  "fixed text",
		"custom_field": map[string]any{"7": "migrated"},
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDoJSON_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		predicate func(error) bool
	}{
		{
			name:      "unauthorized",
			status:    http.StatusUnauthorized,
			body:      `{"status":false,"errorMessage":"API token is invalid"}`,
			predicate: IsUnauthorized,
		},
		{
			name:      "not found",
			status:    http.StatusNotFound,
			body:      `{"status":false,"errorMessage":"Project not found"}`,
			predicate: IsNotFound,
		},
		{
			name:      "forbidden",
			status:    http.StatusForbidden,
			body:      `{"status":false,"errorMessage":"Access denied"}`,
			predicate: IsForbidden,
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"status":false,"errorMessage":"Too many requests"}`,
			predicate: IsRateLimited,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			client, _ := newTestClient(t, handler)

			_, err := client.Project("DEMO").Cases().ListAll(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.predicate(err) {
				t.Errorf("predicate failed for %v", err)
			}
			if !HasStatusCode(err, tt.status) {
				t.Errorf("HasStatusCode(%d) = false for %v", tt.status, err)
			}
		})
	}
}

func TestDoJSON_StatusFalseOn200(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":false,"errorMessage":"something went wrong"}`)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Project("DEMO").Cases().ListAll(context.Background())
	if err == nil {
		t.Fatal("expected error for status=false envelope")
	}
	if !HasStatusCode(err, http.StatusOK) {
		t.Errorf("want APIError with HTTP 200, got %v", err)
	}
}

func TestCustomFields_Delete(t *testing.T) {
	var gotMethod, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		writeResult(t, w, nil)
	})
	client, _ := newTestClient(t, handler)

	if err := client.CustomFields().Delete(context.Background(), 15); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/custom_field/15" {
		t.Errorf("got %s %s, want DELETE /custom_field/15", gotMethod, gotPath)
	}
}

func TestSystemFields_List(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/system_field" {
			t.Errorf("path = %q, want /system_field", r.URL.Path)
		}
		writeResult(t, w, []map[string]any{
			{"title": "Description", "slug": "description"},
			{"title": "Pre-conditions", "slug": "preconditions"},
		})
	})
	client, _ := newTestClient(t, handler)

	fields, err := client.SystemFields().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []SystemField{
		{Title: "Description", Slug: "description"},
		{Title: "Pre-conditions", Slug: "preconditions"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachments_Delete(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		writeResult(t, w, nil)
	})
	client, _ := newTestClient(t, handler)

	if err := client.Attachments().Delete(context.Background(), "abc123hash"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotPath != "/attachment/abc123hash" {
		t.Errorf("path = %q, want /attachment/abc123hash", gotPath)
	}
}

func TestExternalIssues_Attach(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		writeResult(t, w, nil)
	})
	client, _ := newTestClient(t, handler)

	links := []CaseLink{
		{CaseID: 1, ExternalIssues: []string{"PROJ-10", "PROJ-11"}},
		{CaseID: 2, ExternalIssues: []string{"ABC-5"}},
	}
	err := client.Project("DEMO").ExternalIssues().Attach(context.Background(), "jira-cloud", links)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if gotPath != "/external-issue/jira-cloud/attach" {
		t.Errorf("path = %q, want /external-issue/jira-cloud/attach", gotPath)
	}
	want := map[string]any{
		"links": []any{
			map[string]any{"case_id": float64(1), "external_issues": []any{"PROJ-10", "PROJ-11"}},
			map[string]any{"case_id": float64(2), "external_issues": []any{"ABC-5"}},
		},
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestExternalIssues_Attach_NoLinks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty link set")
	})
	client, _ := newTestClient(t, handler)

	if err := client.Project("DEMO").ExternalIssues().Attach(context.Background(), "jira-cloud", nil); err != nil {
		t.Fatalf("Attach: %v", err)
	}
}

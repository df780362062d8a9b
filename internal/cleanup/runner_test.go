package cleanup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qasetool/internal/qase"
)

func newCaseServer(t *testing.T, cases []map[string]any, patchStatus int) (*qase.Client, *[]string) {
	t.Helper()
	var patched []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /case/DEMO", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"result": map[string]any{
				"total": len(cases), "filtered": len(cases), "count": len(cases),
				"entities": cases,
			},
		})
	})
	mux.HandleFunc("PATCH /case/DEMO/{id}", func(w http.ResponseWriter, r *http.Request) {
		patched = append(patched, r.PathValue("id"))
		if patchStatus != http.StatusOK {
			w.WriteHeader(patchStatus)
			io.WriteString(w, `{"status":false,"errorMessage":"boom"}`)
			return
		}
		io.WriteString(w, `{"status":true,"result":{}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := qase.New(server.URL, "tok")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, &patched
}

func TestRunner_Run_FixesAffectedCases(t *testing.T) {
	cases := []map[string]any{
		{"id": 1, "title": "clean", "description": "fine"},
		{"id": 2, "title": "dirty", "description": "broken text"},
		{"id": 3, "title": "also dirty", "preconditions": "broken too"},
	}
	client, patched := newCaseServer(t, cases, http.StatusOK)

	runner := &Runner{
		Cases: client.Project("DEMO").Cases(),
		Sweep: &Sweep{Transform: upperBroken},
		Out:   io.Discard,
	}
	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Total != 3 || stats.Affected != 2 || stats.Fixed != 2 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want total=3 affected=2 fixed=2 errors=0", stats)
	}
	if len(*patched) != 2 || (*patched)[0] != "2" || (*patched)[1] != "3" {
		t.Errorf("patched cases = %v, want [2 3]", *patched)
	}
}

func TestRunner_Run_DryRunSkipsUpdates(t *testing.T) {
	cases := []map[string]any{
		{"id": 1, "title": "dirty", "description": "broken text"},
	}
	client, patched := newCaseServer(t, cases, http.StatusOK)

	runner := &Runner{
		Cases:  client.Project("DEMO").Cases(),
		Sweep:  &Sweep{Transform: upperBroken},
		DryRun: true,
		Out:    io.Discard,
	}
	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Fixed != 1 {
		t.Errorf("dry run should count would-be fixes, got %+v", stats)
	}
	if len(*patched) != 0 {
		t.Errorf("dry run sent %d PATCH requests", len(*patched))
	}
}

func TestRunner_Run_CountsUpdateErrors(t *testing.T) {
	cases := []map[string]any{
		{"id": 1, "title": "dirty", "description": "broken text"},
		{"id": 2, "title": "dirty too", "description": "broken again"},
	}
	client, _ := newCaseServer(t, cases, http.StatusUnprocessableEntity)

	runner := &Runner{
		Cases: client.Project("DEMO").Cases(),
		Sweep: &Sweep{Transform: upperBroken},
		Out:   io.Discard,
	}
	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run should not abort on per-case errors: %v", err)
	}
	if stats.Errors != 2 || stats.Fixed != 0 {
		t.Errorf("stats = %+v, want errors=2 fixed=0", stats)
	}
}

func TestStats_Summary(t *testing.T) {
	s := &Stats{Total: 10, Affected: 3, Fixed: 2, Errors: 1}
	out := s.Summary()
	for _, want := range []string{"Total test cases: 10", "Cases needing fixes: 3", "Cases fixed: 2", "Errors: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q missing %q", out, want)
		}
	}
}

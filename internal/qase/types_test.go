package qase

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringList_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want StringList
	}{
		{name: "array", data: `["PROJ-1","PROJ-2"]`, want: StringList{"PROJ-1", "PROJ-2"}},
		{name: "single string", data: `"PROJ-1"`, want: StringList{"PROJ-1"}},
		{name: "empty string", data: `""`, want: nil},
		{name: "null", data: `null`, want: nil},
		{name: "mixed array keeps strings", data: `["PROJ-1", 7, null, "PROJ-2"]`, want: StringList{"PROJ-1", "PROJ-2"}},
		{name: "number ignored", data: `42`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.data, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaseUpdate_Marshal_OmitsUnsetFields(t *testing.T) {
	desc := ""
	update := &CaseUpdate{Description: &desc}
	update.SetCustomField(12, "value")

	data, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// An explicitly empty description must survive the round trip: it is
	// how a migrated source field gets cleared server-side.
	want := map[string]any{
		"description":  "",
		"custom_field": map[string]any{"12": "value"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCaseUpdate_IsZero(t *testing.T) {
	var update CaseUpdate
	if !update.IsZero() {
		t.Error("empty update should be zero")
	}
	update.SetCustomField(1, "x")
	if update.IsZero() {
		t.Error("update with custom field should not be zero")
	}
}

func TestCaseUpdate_SetField(t *testing.T) {
	var update CaseUpdate
	if err := update.SetField("preconditions", "setup"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if update.Preconditions == nil || *update.Preconditions != "setup" {
		t.Errorf("Preconditions = %v, want setup", update.Preconditions)
	}
	if err := update.SetField("severity", "high"); err == nil {
		t.Error("expected error for unknown slug")
	}
}

func TestTestCase_FieldBySlug(t *testing.T) {
	tc := &TestCase{
		Title:          "login works",
		Description:    "desc",
		Preconditions:  "pre",
		Postconditions: "post",
	}
	tests := []struct {
		slug   string
		want   string
		wantOK bool
	}{
		{"description", "desc", true},
		{"preconditions", "pre", true},
		{"postconditions", "post", true},
		{"title", "login works", true},
		{"severity", "", false},
	}
	for _, tt := range tests {
		got, ok := tc.FieldBySlug(tt.slug)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FieldBySlug(%q) = (%q, %v), want (%q, %v)", tt.slug, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTestCase_CustomFieldValue(t *testing.T) {
	tc := &TestCase{
		CustomFields: []CustomFieldValue{
			{ID: 3, Value: "PROJ-9"},
			{ID: 5, Value: "legacy"},
		},
	}
	if v, ok := tc.CustomFieldValue(5); !ok || v != "legacy" {
		t.Errorf("CustomFieldValue(5) = (%q, %v), want (legacy, true)", v, ok)
	}
	if _, ok := tc.CustomFieldValue(99); ok {
		t.Error("CustomFieldValue(99) should not be found")
	}
}

func TestStep_UnmarshalNested(t *testing.T) {
	data := `{
		"position": 1,
		"hash": "h1",
		"action": "open page",
		"expected_result": "page loads",
		"data": "",
		"steps": [
			{"position": 1, "hash": "h2", "action": "click", "expected_result": "", "data": ""}
		]
	}`
	var step Step
	if err := json.Unmarshal([]byte(data), &step); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(step.Steps) != 1 || step.Steps[0].Action != "click" {
		t.Errorf("nested steps = %+v, want one click step", step.Steps)
	}
}

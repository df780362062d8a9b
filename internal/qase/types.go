package qase

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StringList is a []string that also accepts a single JSON string on
// decode. Older Qase imports stored the refs field both ways.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
	case string:
		if v == "" {
			*s = nil
		} else {
			*s = StringList{v}
		}
	case []any:
		var out StringList
		for _, elem := range v {
			if str, ok := elem.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		*s = out
	default:
		*s = nil
	}
	return nil
}

// TestCase is a test case as returned by the case list endpoint.
type TestCase struct {
	ID             int                `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Preconditions  string             `json:"preconditions"`
	Postconditions string             `json:"postconditions"`
	Refs           StringList         `json:"refs"`
	References     StringList         `json:"references"`
	Steps          []Step             `json:"steps"`
	CustomFields   []CustomFieldValue `json:"custom_fields"`
}

// FieldBySlug returns the value of a writable system text field by its
// slug, as used by system field migrations.
func (tc *TestCase) FieldBySlug(slug string) (string, bool) {
	switch slug {
	case "description":
		return tc.Description, true
	case "preconditions":
		return tc.Preconditions, true
	case "postconditions":
		return tc.Postconditions, true
	case "title":
		return tc.Title, true
	}
	return "", false
}

// CustomFieldValue returns the value of the custom field with the given
// id attached to this case, if any.
func (tc *TestCase) CustomFieldValue(id int) (string, bool) {
	for _, cf := range tc.CustomFields {
		if cf.ID == id {
			return cf.Value, true
		}
	}
	return "", false
}

// Step is a test case step. Steps nest arbitrarily deep.
type Step struct {
	Position       int    `json:"position"`
	Hash           string `json:"hash,omitempty"`
	Action         string `json:"action"`
	ExpectedResult string `json:"expected_result"`
	Data           string `json:"data"`
	Steps          []Step `json:"steps,omitempty"`
}

// CustomFieldValue is a custom field value attached to a test case.
type CustomFieldValue struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// CustomField is a workspace-level custom field definition.
type CustomField struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// SystemField is a built-in case field definition.
type SystemField struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Attachment is an uploaded file in the workspace.
type Attachment struct {
	Hash string `json:"hash"`
	File string `json:"file"`
	Mime string `json:"mime,omitempty"`
	Size int64  `json:"size"`
}

// CaseLink associates a test case with one or more external issue IDs
// for the external issue attach endpoint.
type CaseLink struct {
	CaseID         int      `json:"case_id"`
	ExternalIssues []string `json:"external_issues"`
}

// StepUpdate is a step in a case update payload. Untouched text fields
// must be carried over from the original step: the API replaces the whole
// step list on update.
type StepUpdate struct {
	Position       int          `json:"position"`
	Hash           string       `json:"hash,omitempty"`
	Action         string       `json:"action"`
	ExpectedResult string       `json:"expected_result"`
	Data           string       `json:"data"`
	Steps          []StepUpdate `json:"steps,omitempty"`
}

// CaseUpdate is a partial test case update. Only non-nil fields are sent,
// so setting a field to the empty string clears it server-side while
// leaving the rest of the case untouched.
type CaseUpdate struct {
	Description    *string           `json:"description,omitempty"`
	Preconditions  *string           `json:"preconditions,omitempty"`
	Postconditions *string           `json:"postconditions,omitempty"`
	Title          *string           `json:"title,omitempty"`
	Steps          []StepUpdate      `json:"steps,omitempty"`
	CustomField    map[string]string `json:"custom_field,omitempty"`
}

// IsZero reports whether the update carries no changes at all.
func (u *CaseUpdate) IsZero() bool {
	return u.Description == nil &&
		u.Preconditions == nil &&
		u.Postconditions == nil &&
		u.Title == nil &&
		len(u.Steps) == 0 &&
		len(u.CustomField) == 0
}

// SetField sets a writable system text field by its slug.
func (u *CaseUpdate) SetField(slug, value string) error {
	switch slug {
	case "description":
		u.Description = &value
	case "preconditions":
		u.Preconditions = &value
	case "postconditions":
		u.Postconditions = &value
	case "title":
		u.Title = &value
	default:
		return fmt.Errorf("unknown system field slug %q", slug)
	}
	return nil
}

// SetCustomField sets a custom field value by numeric field ID. The API
// expects the custom_field map keyed by the stringified ID.
func (u *CaseUpdate) SetCustomField(id int, value string) {
	if u.CustomField == nil {
		u.CustomField = make(map[string]string)
	}
	u.CustomField[strconv.Itoa(id)] = value
}

// Fields lists the names of the populated update fields, for logging.
func (u *CaseUpdate) Fields() []string {
	var out []string
	if u.Description != nil {
		out = append(out, "description")
	}
	if u.Preconditions != nil {
		out = append(out, "preconditions")
	}
	if u.Postconditions != nil {
		out = append(out, "postconditions")
	}
	if u.Title != nil {
		out = append(out, "title")
	}
	if len(u.Steps) > 0 {
		out = append(out, "steps")
	}
	for id := range u.CustomField {
		out = append(out, "custom_field:"+id)
	}
	return out
}

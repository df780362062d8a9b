package textfix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJiraIDs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain id",
			text: "PROJ-123",
			want: []string{"PROJ-123"},
		},
		{
			name: "id inside url",
			text: "https://company.atlassian.net/browse/ABC-456",
			want: []string{"ABC-456"},
		},
		{
			name: "multiple ids dedup preserving order",
			text: "PROJ-1, ABC-2, PROJ-1 again",
			want: []string{"PROJ-1", "ABC-2"},
		},
		{
			name: "digits allowed in project key",
			text: "T2-99 is valid",
			want: []string{"T2-99"},
		},
		{
			name: "lowercase not an id",
			text: "proj-123 and Abc-4",
			want: nil,
		},
		{
			name: "single letter project too short",
			text: "A-1",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJiraIDs(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractJiraIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

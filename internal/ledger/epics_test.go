package ledger

import "testing"

func TestEpicForStory(t *testing.T) {
	tests := []struct {
		name    string
		storyID string
		want    string
		wantOK  bool
	}{
		{"standard id", "E1-S1", "EPIC-1", true},
		{"multi-digit epic", "E12-S3", "EPIC-12", true},
		{"extra segments use first prefix", "E2-S1-hotfix", "EPIC-2", true},
		{"no separator", "E1S1", "", false},
		{"prefix without E", "X1-S1", "", false},
		{"lowercase e is not the convention", "e1-S1", "", false},
		{"empty id", "", "", false},
		{"bare E prefix maps to no real epic", "E-S1", "EPIC-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EpicForStory(tt.storyID)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("EpicForStory(%q) = (%q, %v), want (%q, %v)",
					tt.storyID, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

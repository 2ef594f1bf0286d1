package core

import (
	"strings"
	"testing"
)

func TestBuildMenu_RowsAndTokens(t *testing.T) {
	refs := newFakeRefs()

	candidates := make([]Candidate, 8)
	for i := range candidates {
		candidates[i] = Candidate{
			Title: "Song " + string(rune('A'+i)),
			URL:   "https://example.com/watch?v=" + string(rune('a'+i)),
			Rank:  i,
		}
	}

	body, menu, err := BuildMenu("Pick one", candidates, refs, 4, 40)
	if err != nil {
		t.Fatalf("BuildMenu failed: %v", err)
	}

	if len(menu.Rows) != 2 {
		t.Fatalf("Expected 2 rows for 8 candidates at width 4, got %d", len(menu.Rows))
	}
	for i, row := range menu.Rows {
		if len(row) != 4 {
			t.Errorf("Row %d should have 4 buttons, got %d", i, len(row))
		}
	}

	if !strings.HasPrefix(body, "Pick one") {
		t.Error("Body should start with the header")
	}
	for _, c := range candidates {
		if !strings.Contains(body, c.Title) {
			t.Errorf("Body should contain title %q", c.Title)
		}
	}

	// The third button must resolve to the third candidate's URL.
	data := menu.Rows[0][2].Data
	if !strings.HasPrefix(data, DownloadPrefix) {
		t.Fatalf("Button data should carry the download prefix, got %q", data)
	}
	token := strings.TrimPrefix(data, DownloadPrefix)
	target, ok := refs.Resolve(token)
	if !ok {
		t.Fatal("Button token should resolve")
	}
	if target.Kind != TargetURL {
		t.Errorf("Button target kind should be TargetURL, got %v", target.Kind)
	}
	if target.Value != candidates[2].URL {
		t.Errorf("Button 3 should resolve to candidate 3's URL, got %q", target.Value)
	}
}

func TestBuildMenu_PartialLastRow(t *testing.T) {
	refs := newFakeRefs()

	candidates := []Candidate{
		{Title: "one", URL: "u1"},
		{Title: "two", URL: "u2"},
		{Title: "three", URL: "u3"},
		{Title: "four", URL: "u4"},
		{Title: "five", URL: "u5"},
	}

	_, menu, err := BuildMenu("h", candidates, refs, 4, 40)
	if err != nil {
		t.Fatalf("BuildMenu failed: %v", err)
	}

	if len(menu.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(menu.Rows))
	}
	if len(menu.Rows[1]) != 1 {
		t.Errorf("Last row should hold the single leftover button, got %d", len(menu.Rows[1]))
	}
}

func TestBuildMenu_TruncatesLongTitles(t *testing.T) {
	refs := newFakeRefs()
	long := strings.Repeat("x", 100)

	body, _, err := BuildMenu("h", []Candidate{{Title: long, URL: "u"}}, refs, 4, 40)
	if err != nil {
		t.Fatalf("BuildMenu failed: %v", err)
	}

	if strings.Contains(body, long) {
		t.Error("Body should not contain the untruncated title")
	}
	if !strings.Contains(body, "…") {
		t.Error("Truncated title should end in an ellipsis")
	}
}

func TestBuildMenu_TooManyCandidates(t *testing.T) {
	refs := newFakeRefs()

	candidates := make([]Candidate, MarkerSetSize+1)
	for i := range candidates {
		candidates[i] = Candidate{Title: "t", URL: "u"}
	}

	if _, _, err := BuildMenu("h", candidates, refs, 4, 40); err == nil {
		t.Error("BuildMenu should reject more candidates than markers")
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, DefaultSearchLimit},
		{"negative falls back to default", -3, DefaultSearchLimit},
		{"in range passes through", 5, 5},
		{"above marker set clamps", 25, MarkerSetSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLimit(tt.limit); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

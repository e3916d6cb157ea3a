package candidates

import (
	"strings"
	"testing"
)

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("Expected no candidates for empty input, got %v", got)
	}
}

func TestExtractQualification(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "keyword line qualifies",
			text:     "open late\nJOE'S PIZZA\nparking in rear",
			expected: []string{"JOE'S PIZZA"},
		},
		{
			name:     "title case line qualifies",
			text:     "WELCOME\nGolden Dragon\n123 main st",
			expected: []string{"Golden Dragon"},
		},
		{
			name:     "social handle qualifies",
			text:     "follow us\n@goldendragonnyc\n#bestnoodles",
			expected: []string{"@goldendragonnyc", "#bestnoodles"},
		},
		{
			name:     "urls rejected even with keywords",
			text:     "http://joespizza.com\nwww.joespizza.com restaurant\nJoe's Pizza",
			expected: []string{"Joe's Pizza"},
		},
		{
			name:     "title case outside length bounds rejected",
			text:     "Ab\nSome Extremely Long Titlecased Establishment Name Beyond These Bounds",
			expected: nil,
		},
		{
			name:     "mixed case non-title non-keyword rejected",
			text:     "mON - fRI 9-5\nTOTAL $42.17",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected candidate %d to be %q, got %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestExtractNoURLsAndNoDuplicates(t *testing.T) {
	text := "Joe's Pizza\nJoe's Pizza\nhttp://joespizza.com\nwww.joes.com\nGolden Dragon\nJoe's Pizza"

	got := Extract(text)

	seen := make(map[string]bool)
	for _, c := range got {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "http") || strings.Contains(lower, "www") {
			t.Errorf("Candidate %q contains a URL marker", c)
		}
		if seen[c] {
			t.Errorf("Duplicate candidate %q", c)
		}
		seen[c] = true
	}

	if len(got) != 2 {
		t.Errorf("Expected 2 unique candidates, got %v", got)
	}
}

func TestExtractPreservesFirstAppearanceOrder(t *testing.T) {
	text := "Golden Dragon\nJoe's Pizza\nGolden Dragon"

	got := Extract(text)
	if len(got) != 2 || got[0] != "Golden Dragon" || got[1] != "Joe's Pizza" {
		t.Errorf("Expected order of first appearance, got %v", got)
	}
}

func TestKeywordMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"restaurant", true},
		{"RESTAURANT", true},
		{"meal_takeaway", false},
		{"Pizzeria Uno", true},
		{"hardware store", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := KeywordMatch(tt.input); got != tt.expected {
			t.Errorf("KeywordMatch(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

package resolution

import (
	"math"
	"testing"

	"github.com/dishpin/dishpin/internal/places"
)

var testParams = ScoreParams{
	CategoryBonus:  0.1,
	RatingBonus:    0.1,
	RatingBonusMin: 4.0,
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "Joe's Pizza", "Golden Dragon", "日本食堂"} {
		if got := Similarity(s, s); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %f, expected 1.0", s, s, got)
		}
	}
}

func TestSimilarityCaseFolded(t *testing.T) {
	if got := Similarity("JOE'S PIZZA", "joe's pizza"); got != 1.0 {
		t.Errorf("Expected case-folded identity to score 1.0, got %f", got)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"joe's pizza", "joes pizza"},
		{"golden dragon", "golden dragon noodles"},
		{"a", "xyz"},
		{"", "abc"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %f but Similarity(%q, %q) = %f", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarityNormalizedDistance(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		// one deletion over length 4
		{"abcd", "abc", 0.75},
		// two edits over length 5
		{"abcde", "abcxy", 0.6},
		// nothing in common
		{"abc", "xyz", 0.0},
		// empty against non-empty
		{"", "abc", 0.0},
	}

	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, expected %f", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestScorePlacesMaxOverCandidates(t *testing.T) {
	cands := []string{"zzzzzz", "golden dragon"}
	records := []places.Record{
		{Name: "Golden Dragon", PlaceID: "p1"},
	}

	scored := ScorePlaces(cands, records, testParams)
	if len(scored) != 1 {
		t.Fatalf("Expected 1 scored place, got %d", len(scored))
	}

	// A garbled candidate must not drag the score down.
	if scored[0].Score != 1.0 {
		t.Errorf("Expected max-over-candidates score 1.0, got %f", scored[0].Score)
	}
	if scored[0].BestCandidate() != "golden dragon" {
		t.Errorf("Expected best candidate %q, got %q", "golden dragon", scored[0].BestCandidate())
	}
}

func TestScorePlacesBonuses(t *testing.T) {
	tests := []struct {
		name     string
		record   places.Record
		expected float64
	}{
		{
			name:     "category and rating bonuses",
			record:   places.Record{Name: "Joe's Pizza", PlaceID: "p1", Categories: []string{"restaurant"}, Rating: 4.5},
			expected: 1.2,
		},
		{
			name:     "category bonus only",
			record:   places.Record{Name: "Joe's Pizza", PlaceID: "p2", Categories: []string{"restaurant"}, Rating: 3.9},
			expected: 1.1,
		},
		{
			name:     "rating at boundary earns no bonus",
			record:   places.Record{Name: "Joe's Pizza", PlaceID: "p3", Rating: 4.0},
			expected: 1.0,
		},
		{
			name:     "category bonus applied once",
			record:   places.Record{Name: "Joe's Pizza", PlaceID: "p4", Categories: []string{"restaurant", "cafe", "bar"}},
			expected: 1.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := ScorePlaces([]string{"Joe's Pizza"}, []places.Record{tt.record}, testParams)
			if math.Abs(scored[0].Score-tt.expected) > 1e-9 {
				t.Errorf("Expected score %f, got %f", tt.expected, scored[0].Score)
			}
		})
	}
}

func TestScorePlacesSortedDescendingStable(t *testing.T) {
	cands := []string{"golden dragon"}
	records := []places.Record{
		{Name: "Golden Dragon Express", PlaceID: "p1"},
		{Name: "Golden Dragon", PlaceID: "p2"},
		{Name: "Unrelated Hardware", PlaceID: "p3"},
		{Name: "Golden Dragon Express", PlaceID: "p4"},
	}

	scored := ScorePlaces(cands, records, ScoreParams{})

	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Errorf("Output not sorted descending at index %d: %f > %f", i, scored[i].Score, scored[i-1].Score)
		}
	}

	if scored[0].PlaceID != "p2" {
		t.Errorf("Expected exact match first, got %s", scored[0].PlaceID)
	}

	// Equal scores keep input order.
	if scored[1].PlaceID != "p1" || scored[2].PlaceID != "p4" {
		t.Errorf("Expected stable tie order p1,p4, got %s,%s", scored[1].PlaceID, scored[2].PlaceID)
	}
}

func TestScorePlacesEmptyInputs(t *testing.T) {
	if got := ScorePlaces(nil, nil, testParams); len(got) != 0 {
		t.Errorf("Expected no scored places, got %v", got)
	}

	scored := ScorePlaces(nil, []places.Record{{Name: "Anything", PlaceID: "p1"}}, testParams)
	if len(scored) != 1 || scored[0].Score != 0 {
		t.Errorf("Expected zero score with no candidates, got %v", scored)
	}
}

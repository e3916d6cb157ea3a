package resolution

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/dishpin/dishpin/internal/candidates"
	"github.com/dishpin/dishpin/internal/places"
)

// ScoredPlace is a place record ranked against the candidate set. Score is
// the maximum similarity over all candidates plus additive bonuses; it is a
// heuristic, not a probability, and may exceed 1.0.
type ScoredPlace struct {
	places.Record
	Score float64 `json:"score"`

	// bestCandidate is the candidate that produced the maximum similarity,
	// used for the cache key on auto-confirm.
	bestCandidate string
}

func (s ScoredPlace) BestCandidate() string {
	return s.bestCandidate
}

type ScoreParams struct {
	CategoryBonus  float64
	RatingBonus    float64
	RatingBonusMin float64
}

// Similarity is normalized edit distance: 1.0 when the case-folded strings
// are identical, otherwise (L - levenshtein(a,b)) / L with L the length of
// the longer case-folded string. Symmetric and deterministic.
func Similarity(a, b string) float64 {
	af := strings.ToLower(a)
	bf := strings.ToLower(b)
	if af == bf {
		return 1.0
	}

	la := len([]rune(af))
	lb := len([]rune(bf))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 1.0
	}

	dist := levenshtein.Distance(af, bf, nil)
	return float64(longer-dist) / float64(longer)
}

// ScorePlaces ranks places against every candidate, taking the maximum
// similarity per place so one garbled OCR candidate cannot penalize a place
// another candidate matches well. Bonuses apply once per place. The result is
// sorted descending by score with input order breaking ties.
func ScorePlaces(cands []string, records []places.Record, params ScoreParams) []ScoredPlace {
	scored := make([]ScoredPlace, 0, len(records))

	for _, record := range records {
		best := 0.0
		bestCand := ""
		for _, cand := range cands {
			if sim := Similarity(cand, record.Name); sim > best {
				best = sim
				bestCand = cand
			}
		}

		score := best
		for _, category := range record.Categories {
			if candidates.KeywordMatch(category) {
				score += params.CategoryBonus
				break
			}
		}
		if record.Rating > params.RatingBonusMin {
			score += params.RatingBonus
		}

		scored = append(scored, ScoredPlace{
			Record:        record,
			Score:         score,
			bestCandidate: bestCand,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

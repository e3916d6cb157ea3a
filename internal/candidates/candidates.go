package candidates

import (
	"regexp"
	"strings"
)

// venueKeywords is the fixed food/venue vocabulary shared by candidate
// qualification and the scorer's category bonus.
var venueKeywords = []string{
	"restaurant", "cafe", "café", "coffee", "bar", "grill", "kitchen",
	"pizza", "pizzeria", "sushi", "ramen", "noodle", "bistro", "bakery",
	"diner", "eatery", "taco", "burger", "bbq", "barbecue", "deli",
	"brasserie", "trattoria", "osteria", "izakaya", "pub", "steak",
	"house", "taverna", "cantina", "food", "brunch", "bistrot",
}

var titleCasePattern = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*$`)

// KeywordMatch reports whether s contains any food/venue keyword,
// case-insensitively.
func KeywordMatch(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range venueKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Extract derives probable place names from raw OCR text. It is pure and
// deterministic: identical input yields identical output, in order of first
// appearance. Lines mentioning URLs are never candidates.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]bool)
	var result []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !qualifies(line) {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		result = append(result, line)
	}

	return result
}

func qualifies(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "http") || strings.Contains(lower, "www") {
		return false
	}

	if KeywordMatch(line) {
		return true
	}

	if len(line) >= 3 && len(line) <= 50 && titleCasePattern.MatchString(line) {
		return true
	}

	// Social handles and hashtags frequently carry the venue name.
	if strings.ContainsAny(line, "@#") {
		return true
	}

	return false
}

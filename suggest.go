package geostats

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance caps the edit distance at which a category is still suggested.
const maxSuggestDistance = 3

// SuggestCategory returns the known category closest to s by case-insensitive edit
// distance, if one is within maxSuggestDistance. Ties go to the earlier category in
// Categories order.
func SuggestCategory(s string) (Category, bool) {
	s = toLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}

	var best Category
	bestDist := maxSuggestDistance + 1
	for _, c := range categories {
		if d := levenshtein.ComputeDistance(s, string(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

package matching

import (
	"sort"

	"trufi/internal/domain"
)

// Rank orders matches for presentation: cheapest first, cost ties broken
// by total walking distance, and equal-cost equal-walk lines keep their
// catalog order (the sort is stable). The input is not modified.
func Rank(matches []domain.MatchResult) []domain.MatchResult {
	ranked := make([]domain.MatchResult, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EstimatedCost != ranked[j].EstimatedCost {
			return ranked[i].EstimatedCost < ranked[j].EstimatedCost
		}
		return ranked[i].WalkTotalM() < ranked[j].WalkTotalM()
	})

	return ranked
}

// MaxCost returns the highest estimated cost among matches, or 0 when
// there are none. Presentation uses it to scale relative-cost bars.
func MaxCost(matches []domain.MatchResult) float64 {
	var max float64
	for i := range matches {
		if matches[i].EstimatedCost > max {
			max = matches[i].EstimatedCost
		}
	}
	return max
}

package tripplanner

import (
	"sort"

	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

// ratingOf treats a missing rating as 0 for ordering only; the displayed
// field is never rewritten.
func ratingOf(p types.PlaceResult) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// sortByRating orders places by rating descending, in place. The sort is
// stable so equally rated places keep their provider order.
func sortByRating(places []types.PlaceResult) {
	sort.SliceStable(places, func(i, j int) bool {
		return ratingOf(places[i]) > ratingOf(places[j])
	})
}

// dropEmpty removes categories whose place list came back empty, including
// failed fan-out branches.
func dropEmpty(categories []types.CategorizedPlaces) []types.CategorizedPlaces {
	kept := make([]types.CategorizedPlaces, 0, len(categories))
	for _, c := range categories {
		if len(c.Places) > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}

// topRated builds the synthetic Top Rated list: the union of all places
// across categories deduplicated by place ID (first occurrence wins, in
// category order), sorted by rating descending and truncated to limit.
// The second return value is the number of unique places found overall.
func topRated(categories []types.CategorizedPlaces, limit int) ([]types.PlaceResult, int) {
	seen := make(map[string]bool)
	var unique []types.PlaceResult
	for _, category := range categories {
		for _, place := range category.Places {
			if seen[place.PlaceID] {
				continue
			}
			seen[place.PlaceID] = true
			unique = append(unique, place)
		}
	}

	total := len(unique)
	sortByRating(unique)
	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique, total
}

package tripplanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

// WellKnownTable maps a normalized location fragment to the canonical search
// text for a high-traffic destination. Matches pick the locale-specific
// category set and the longer cache TTL. Membership comes from config; the
// defaults cover the destinations the original site was built around.
type WellKnownTable map[string]string

// Resolve returns the canonical search text for a location and whether it
// matched the table. Keys are checked in sorted order so overlapping
// fragments resolve deterministically.
func (t WellKnownTable) Resolve(location string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(location))

	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.Contains(normalized, key) {
			return t[key], true
		}
	}
	return location, false
}

// searchCategory pairs a display name with the text query used to fetch it.
type searchCategory struct {
	Name  string
	Query string
}

// categoriesFor returns the fixed, ordered category set for a destination.
// Well-known destinations get the locale-specific set (temples, bazaars,
// palaces); everywhere else gets the generic set.
func categoriesFor(location string, wellKnown bool) []searchCategory {
	if wellKnown {
		return []searchCategory{
			{Name: "Attractions", Query: fmt.Sprintf("tourist attractions in %s", location)},
			{Name: "Historical", Query: fmt.Sprintf("historical places in %s", location)},
			{Name: "Temples", Query: fmt.Sprintf("temples in %s", location)},
			{Name: "Cultural", Query: fmt.Sprintf("cultural sites in %s", location)},
			{Name: "Markets", Query: fmt.Sprintf("bazaars and markets in %s", location)},
			{Name: "Palaces", Query: fmt.Sprintf("palaces and forts in %s", location)},
			{Name: "Gardens", Query: fmt.Sprintf("gardens and parks in %s", location)},
			{Name: "Food", Query: fmt.Sprintf("best restaurants in %s", location)},
		}
	}
	return []searchCategory{
		{Name: "Attractions", Query: fmt.Sprintf("tourist attractions in %s", location)},
		{Name: "Historical", Query: fmt.Sprintf("historical places in %s", location)},
		{Name: "Cultural", Query: fmt.Sprintf("cultural sites in %s", location)},
		{Name: "Museums", Query: fmt.Sprintf("museums in %s", location)},
		{Name: "Religious", Query: fmt.Sprintf("temples and religious sites in %s", location)},
		{Name: "Parks", Query: fmt.Sprintf("parks and gardens in %s", location)},
		{Name: "Shopping", Query: fmt.Sprintf("shopping markets in %s", location)},
		{Name: "Food", Query: fmt.Sprintf("best restaurants in %s", location)},
	}
}

// annotateDistance fills in the place's distance from the destination
// coordinate when the place has geometry.
func annotateDistance(place *types.PlaceResult, from types.Coordinate) {
	if place.Location == nil {
		return
	}
	km := haversineDistanceKm(from.Lat, from.Lng, place.Location.Lat, place.Location.Lng)
	place.Distance = &types.DistanceInfo{
		Km:    km,
		Miles: km * kmToMiles,
	}
}

package tripplanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

func ratedPlace(id string, rating float64) types.PlaceResult {
	return types.PlaceResult{PlaceID: id, Name: id, Rating: &rating}
}

func TestSortByRating(t *testing.T) {
	unrated := types.PlaceResult{PlaceID: "unrated", Name: "unrated"}
	list := []types.PlaceResult{
		ratedPlace("mid", 3.9),
		unrated,
		ratedPlace("top", 4.8),
		ratedPlace("low", 2.1),
	}

	sortByRating(list)

	assert.Equal(t, "top", list[0].PlaceID)
	assert.Equal(t, "mid", list[1].PlaceID)
	assert.Equal(t, "low", list[2].PlaceID)
	// Missing rating sorts last and the original field stays untouched.
	assert.Equal(t, "unrated", list[3].PlaceID)
	assert.Nil(t, list[3].Rating)
}

func TestDropEmpty(t *testing.T) {
	categories := []types.CategorizedPlaces{
		{Category: "Attractions", Places: []types.PlaceResult{ratedPlace("a", 4.0)}},
		{Category: "Museums", Places: []types.PlaceResult{}},
		{Category: "Food", Places: nil, Err: "failed to fetch Food data"},
	}

	kept := dropEmpty(categories)

	require.Len(t, kept, 1)
	assert.Equal(t, "Attractions", kept[0].Category)
}

func TestTopRated(t *testing.T) {
	t.Run("deduplicates by place id, first occurrence wins", func(t *testing.T) {
		categories := []types.CategorizedPlaces{
			{Category: "Attractions", Places: []types.PlaceResult{
				ratedPlace("fort", 4.5),
				ratedPlace("palace", 4.7),
			}},
			{Category: "Historical", Places: []types.PlaceResult{
				ratedPlace("fort", 4.5), // duplicate
				ratedPlace("temple", 4.9),
			}},
		}

		top, total := topRated(categories, 10)

		assert.Equal(t, 3, total)
		require.Len(t, top, 3)
		assert.Equal(t, "temple", top[0].PlaceID)
		assert.Equal(t, "palace", top[1].PlaceID)
		assert.Equal(t, "fort", top[2].PlaceID)
	})

	t.Run("truncates to limit but reports full unique count", func(t *testing.T) {
		categories := []types.CategorizedPlaces{
			{Category: "Attractions", Places: []types.PlaceResult{
				ratedPlace("a", 4.1),
				ratedPlace("b", 4.2),
				ratedPlace("c", 4.3),
			}},
		}

		top, total := topRated(categories, 2)

		assert.Equal(t, 3, total)
		require.Len(t, top, 2)
		assert.Equal(t, "c", top[0].PlaceID)
		assert.Equal(t, "b", top[1].PlaceID)
	})

	t.Run("empty input", func(t *testing.T) {
		top, total := topRated(nil, 10)
		assert.Zero(t, total)
		assert.Empty(t, top)
	})
}

func TestWellKnownTableResolve(t *testing.T) {
	table := WellKnownTable{
		"jaipur":  "Jaipur, Rajasthan, India",
		"udaipur": "Udaipur, Rajasthan, India",
		"delhi":   "New Delhi, India",
	}

	t.Run("substring match is case insensitive", func(t *testing.T) {
		canonical, ok := table.Resolve("  Trip to JAIPUR next month ")
		assert.True(t, ok)
		assert.Equal(t, "Jaipur, Rajasthan, India", canonical)
	})

	t.Run("unknown location passes through", func(t *testing.T) {
		canonical, ok := table.Resolve("Lisbon")
		assert.False(t, ok)
		assert.Equal(t, "Lisbon", canonical)
	})
}

func TestCategoriesFor(t *testing.T) {
	wellKnown := categoriesFor("Jaipur, Rajasthan, India", true)
	generic := categoriesFor("Lisbon", false)

	require.Len(t, wellKnown, 8)
	require.Len(t, generic, 8)

	names := func(cs []searchCategory) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}

	assert.Equal(t, []string{"Attractions", "Historical", "Temples", "Cultural", "Markets", "Palaces", "Gardens", "Food"}, names(wellKnown))
	assert.Equal(t, []string{"Attractions", "Historical", "Cultural", "Museums", "Religious", "Parks", "Shopping", "Food"}, names(generic))

	for _, c := range wellKnown {
		assert.Contains(t, c.Query, "Jaipur, Rajasthan, India")
	}
}

func TestAnnotateDistance(t *testing.T) {
	from := types.Coordinate{Lat: 0, Lng: 0}

	t.Run("fills km and miles", func(t *testing.T) {
		place := types.PlaceResult{Location: &types.Coordinate{Lat: 0, Lng: 1}}
		annotateDistance(&place, from)

		require.NotNil(t, place.Distance)
		assert.InDelta(t, 111.19, place.Distance.Km, 0.5)
		assert.InDelta(t, place.Distance.Km*0.621371, place.Distance.Miles, 1e-9)
	})

	t.Run("no geometry leaves distance nil", func(t *testing.T) {
		place := types.PlaceResult{}
		annotateDistance(&place, from)
		assert.Nil(t, place.Distance)
	})
}

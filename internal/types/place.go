package types

// Coordinate is a latitude/longitude pair as returned by the places provider.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceInfo carries the distance of a place from the resolved trip
// destination. Computed once per place per request.
type DistanceInfo struct {
	Km    float64 `json:"km"`
	Miles float64 `json:"miles"`
}

// PlaceResult is the normalized shape of a single place returned by the
// places provider. Rating and PhotoReference stay nil when the provider
// omits them; rendering decides how to present the absence.
type PlaceResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Address          string        `json:"address"`
	Location         *Coordinate   `json:"location"`
	Distance         *DistanceInfo `json:"distance,omitempty"`
	Rating           *float64      `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	PhotoReference   *string       `json:"photo_reference"`
	Types            []string      `json:"types,omitempty"`
}

// CategorizedPlaces is one category's worth of results, sorted by rating
// descending. Err marks a fan-out branch that failed; its Places list is
// empty and the category is dropped before rendering.
type CategorizedPlaces struct {
	Category string        `json:"category"`
	Places   []PlaceResult `json:"places"`
	Err      string        `json:"error,omitempty"`
}

// TripDestination is the resolved main location of a trip plan.
type TripDestination struct {
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Location       Coordinate `json:"location"`
	PlaceID        string     `json:"place_id"`
	PhotoReference *string    `json:"photo_reference"`
}

// TripPlannerResponse is the composite payload built by the aggregator and
// cached as a whole. Categories always lead with the synthetic "Top Rated"
// category; empty categories are never present.
type TripPlannerResponse struct {
	Destination      TripDestination     `json:"destination"`
	Categories       []CategorizedPlaces `json:"categories"`
	TotalPlacesFound int                 `json:"total_places_found"`
}

// AddressComponent is a structured fragment of a place's address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// DetailedPlace extends PlaceResult with the billable detail fields that are
// only fetched on explicit request.
type DetailedPlace struct {
	PlaceID            string             `json:"place_id"`
	Name               string             `json:"name"`
	Address            string             `json:"formatted_address"`
	Location           *Coordinate        `json:"location"`
	Rating             *float64           `json:"rating"`
	UserRatingsTotal   int                `json:"user_ratings_total"`
	PriceLevel         *int               `json:"price_level,omitempty"`
	Phone              string             `json:"formatted_phone_number,omitempty"`
	InternationalPhone string             `json:"international_phone_number,omitempty"`
	Website            string             `json:"website,omitempty"`
	URL                string             `json:"url,omitempty"`
	Vicinity           string             `json:"vicinity,omitempty"`
	OpenNow            *bool              `json:"open_now,omitempty"`
	WeekdayHours       []string           `json:"weekday_hours,omitempty"`
	Types              []string           `json:"types,omitempty"`
	PhotoReferences    []string           `json:"photo_references,omitempty"`
	AddressComponents  []AddressComponent `json:"address_components,omitempty"`
}

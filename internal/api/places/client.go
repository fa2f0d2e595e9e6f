package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-travel-places-api/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

// defaultDetailFields is requested when the caller does not narrow the field
// list. Matches the set the front end expects for the details page.
const defaultDetailFields = "name,formatted_address,geometry,photos,price_level," +
	"rating,types,user_ratings_total,website,formatted_phone_number," +
	"international_phone_number,opening_hours,url,vicinity,address_components"

// SearchOptions narrows a text search. Limit bounds the normalized result
// slice; zero means no bound.
type SearchOptions struct {
	Limit        int
	Type         string
	Location     *types.Coordinate
	RadiusMeters int
}

// NearbyOptions parameterizes a nearby search around a coordinate. When
// RankBy is "distance" the provider forbids a radius, so it is omitted.
type NearbyOptions struct {
	Location     types.Coordinate
	RadiusMeters int
	Type         string
	Keyword      string
	RankBy       string
}

// AutocompleteOptions narrows autocomplete predictions.
type AutocompleteOptions struct {
	Types        string
	Components   string
	StrictBounds bool
	Location     *types.Coordinate
	RadiusMeters int
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description string   `json:"description"`
	PlaceID     string   `json:"place_id"`
	Types       []string `json:"types,omitempty"`
}

// API defines the places-provider contract the handlers and the trip planner
// aggregator depend on.
type API interface {
	FindPlaceByQuery(ctx context.Context, query string) (*types.PlaceResult, error)
	SearchPlacesByQuery(ctx context.Context, query string, opts SearchOptions) ([]types.PlaceResult, error)
	SearchNearby(ctx context.Context, opts NearbyOptions) ([]types.PlaceResult, error)
	Autocomplete(ctx context.Context, input string, opts AutocompleteOptions) ([]Prediction, error)
	GetPlaceDetails(ctx context.Context, placeID, fields string) (*types.DetailedPlace, error)
	PhotoURL(photoReference string, maxWidth int) string
}

// --- Raw wire shapes of the Google Places API ---

type rawGeometry struct {
	Location types.Coordinate `json:"location"`
}

type rawPhoto struct {
	PhotoReference string `json:"photo_reference"`
}

type rawPlace struct {
	PlaceID          string       `json:"place_id"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Vicinity         string       `json:"vicinity"`
	Geometry         *rawGeometry `json:"geometry"`
	Rating           *float64     `json:"rating"`
	UserRatingsTotal int          `json:"user_ratings_total"`
	Photos           []rawPhoto   `json:"photos"`
	Types            []string     `json:"types"`
}

type rawOpeningHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type rawPlaceDetails struct {
	rawPlace
	PriceLevel         *int                     `json:"price_level"`
	Phone              string                   `json:"formatted_phone_number"`
	InternationalPhone string                   `json:"international_phone_number"`
	Website            string                   `json:"website"`
	URL                string                   `json:"url"`
	OpeningHours       *rawOpeningHours         `json:"opening_hours"`
	AddressComponents  []types.AddressComponent `json:"address_components"`
}

type searchResponse struct {
	Results      []rawPlace `json:"results"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
}

type detailsResponse struct {
	Result       *rawPlaceDetails `json:"result"`
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message"`
}

type autocompleteResponse struct {
	Predictions  []Prediction `json:"predictions"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

// Client issues requests against the Google Places API and normalizes its
// responses into the internal entity shapes. Requests are never retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ API = (*Client)(nil)

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FindPlaceByQuery resolves a free-text location or attraction name to its
// best-matching place. Returns types.ErrNotFound when the provider has no
// candidates.
func (c *Client) FindPlaceByQuery(ctx context.Context, query string) (*types.PlaceResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.doJSON(ctx, "textsearch", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no location found for %q: %w", query, types.ErrNotFound)
	}

	place := normalizePlace(resp.Results[0])
	return &place, nil
}

// SearchPlacesByQuery runs a general text search and returns normalized
// results, sliced to opts.Limit after normalization.
func (c *Client) SearchPlacesByQuery(ctx context.Context, query string, opts SearchOptions) ([]types.PlaceResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.Location != nil {
		params.Set("location", fmt.Sprintf("%f,%f", opts.Location.Lat, opts.Location.Lng))
		radius := opts.RadiusMeters
		if radius <= 0 {
			radius = 50000
		}
		params.Set("radius", strconv.Itoa(radius))
	}

	var resp searchResponse
	if err := c.doJSON(ctx, "textsearch", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	results := make([]types.PlaceResult, 0, len(resp.Results))
	for _, raw := range resp.Results {
		results = append(results, normalizePlace(raw))
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// SearchNearby finds places around a coordinate.
func (c *Client) SearchNearby(ctx context.Context, opts NearbyOptions) ([]types.PlaceResult, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", opts.Location.Lat, opts.Location.Lng))
	if opts.RankBy == "distance" {
		params.Set("rankby", "distance")
	} else {
		radius := opts.RadiusMeters
		if radius <= 0 {
			radius = 5000
		}
		params.Set("radius", strconv.Itoa(radius))
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.Keyword != "" {
		params.Set("keyword", opts.Keyword)
	}

	var resp searchResponse
	if err := c.doJSON(ctx, "nearbysearch", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	results := make([]types.PlaceResult, 0, len(resp.Results))
	for _, raw := range resp.Results {
		results = append(results, normalizePlace(raw))
	}
	return results, nil
}

// Autocomplete returns place predictions for a partial input.
func (c *Client) Autocomplete(ctx context.Context, input string, opts AutocompleteOptions) ([]Prediction, error) {
	params := url.Values{}
	params.Set("input", input)
	if opts.Types != "" {
		params.Set("types", opts.Types)
	}
	if opts.Components != "" {
		params.Set("components", opts.Components)
	}
	if opts.StrictBounds {
		params.Set("strictbounds", "true")
	}
	if opts.Location != nil {
		params.Set("location", fmt.Sprintf("%f,%f", opts.Location.Lat, opts.Location.Lng))
		if opts.RadiusMeters > 0 {
			params.Set("radius", strconv.Itoa(opts.RadiusMeters))
		}
	}

	var resp autocompleteResponse
	if err := c.doJSON(ctx, "autocomplete", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

// GetPlaceDetails fetches extended fields for one place. Fields defaults to
// the full detail set; callers narrow it to avoid unnecessary provider
// billing.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID, fields string) (*types.DetailedPlace, error) {
	if fields == "" {
		fields = defaultDetailFields
	}
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", fields)

	var resp detailsResponse
	if err := c.doJSON(ctx, "details", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("no details for place %q: %w", placeID, types.ErrNotFound)
	}
	return normalizeDetails(*resp.Result), nil
}

// PhotoURL builds the direct provider URL for a photo reference. The handler
// redirects to it instead of proxying bytes through this process.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 800
	}
	params := url.Values{}
	params.Set("photoreference", photoReference)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s/photo?%s", c.baseURL, params.Encode())
}

func (c *Client) doJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("provider", "google_places"),
		attribute.String("endpoint", endpoint),
	)

	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	c.logger.DebugContext(ctx, "Issuing places request", slog.String("endpoint", endpoint))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	m.UpstreamRequestsTotal.Add(ctx, 1, attrs)
	m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &types.UpstreamError{
			Provider:   "google_places",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		return &types.UpstreamError{
			Provider:   "google_places",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response body: %v", err),
		}
	}
	return nil
}

// checkStatus maps the provider-level status field to an error. ZERO_RESULTS
// is not an error; callers decide whether an empty result set is a NotFound.
func checkStatus(status, errorMessage string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		msg := errorMessage
		if msg == "" {
			msg = status
		}
		return &types.UpstreamError{
			Provider:   "google_places",
			StatusCode: http.StatusBadGateway,
			Message:    msg,
		}
	}
}

func normalizePlace(raw rawPlace) types.PlaceResult {
	address := raw.FormattedAddress
	if address == "" {
		address = raw.Vicinity
	}

	place := types.PlaceResult{
		PlaceID:          raw.PlaceID,
		Name:             raw.Name,
		Address:          address,
		Rating:           raw.Rating,
		UserRatingsTotal: raw.UserRatingsTotal,
		Types:            raw.Types,
	}
	if raw.Geometry != nil {
		loc := raw.Geometry.Location
		place.Location = &loc
	}
	if len(raw.Photos) > 0 {
		ref := raw.Photos[0].PhotoReference
		place.PhotoReference = &ref
	}
	return place
}

func normalizeDetails(raw rawPlaceDetails) *types.DetailedPlace {
	base := normalizePlace(raw.rawPlace)

	details := &types.DetailedPlace{
		PlaceID:            base.PlaceID,
		Name:               base.Name,
		Address:            raw.FormattedAddress,
		Location:           base.Location,
		Rating:             base.Rating,
		UserRatingsTotal:   base.UserRatingsTotal,
		PriceLevel:         raw.PriceLevel,
		Phone:              raw.Phone,
		InternationalPhone: raw.InternationalPhone,
		Website:            raw.Website,
		URL:                raw.URL,
		Vicinity:           raw.Vicinity,
		Types:              raw.Types,
		AddressComponents:  raw.AddressComponents,
	}
	for _, photo := range raw.Photos {
		details.PhotoReferences = append(details.PhotoReferences, photo.PhotoReference)
	}
	if raw.OpeningHours != nil {
		details.OpenNow = raw.OpeningHours.OpenNow
		details.WeekdayHours = raw.OpeningHours.WeekdayText
	}
	return details
}

package places

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-places-api/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-places-api/internal/api"
	"github.com/FACorreiaa/go-travel-places-api/internal/cache"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

const (
	searchCacheTTL       = time.Hour
	detailsCacheTTL      = time.Hour
	autocompleteCacheTTL = 30 * time.Minute
	popularCacheTTL      = 24 * time.Hour
)

// countries the popular-destinations heuristic recognizes as country-level
// queries rather than city-level ones.
var knownCountries = map[string]bool{
	"india": true, "usa": true, "france": true, "japan": true,
	"australia": true, "italy": true, "spain": true, "canada": true,
	"brazil": true, "egypt": true,
}

type Handler struct {
	client API
	cache  *cache.Cache
	logger *slog.Logger
}

func NewHandler(client API, cache *cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// SearchPlaces handles GET /api/places/search?query=&type=&location=&radius=
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces")
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	query := r.URL.Query().Get("query")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter is required")
		return
	}

	opts := SearchOptions{Type: r.URL.Query().Get("type")}
	params := map[string]string{"query": query}
	if opts.Type != "" {
		params["type"] = opts.Type
	}
	if locParam := r.URL.Query().Get("location"); locParam != "" {
		loc, err := parseLatLng(locParam)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Location must be formatted as lat,lng")
			return
		}
		opts.Location = loc
		opts.RadiusMeters = intParam(r, "radius", 50000)
		params["location"] = locParam
		params["radius"] = strconv.Itoa(opts.RadiusMeters)
	}

	key := cache.Key("textsearch", params)
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		l.DebugContext(ctx, "Returning cached search results", slog.String("query", query))
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	results, err := h.client.SearchPlacesByQuery(ctx, query, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		h.renderError(w, r, l, err, "Failed to search places")
		return
	}

	payload := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}
	h.cache.Set(key, payload, searchCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

// GetPlaceDetails handles GET /api/places/details?place_id=&fields=
func (h *Handler) GetPlaceDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPlaceDetails")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPlaceDetails"))

	placeID := r.URL.Query().Get("place_id")
	if placeID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Place ID parameter is required")
		return
	}
	fields := r.URL.Query().Get("fields")

	key := cache.Key("details", map[string]string{"place_id": placeID, "fields": fields})
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	details, err := h.client.GetPlaceDetails(ctx, placeID, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details fetch failed")
		h.renderError(w, r, l, err, "Failed to get place details")
		return
	}

	h.cache.Set(key, details, detailsCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, details)
}

// GetPlacePhoto handles GET /api/places/photo?photoreference=&maxwidth=
// It answers with a redirect to the provider's photo URL; bytes are never
// buffered through this process.
func (h *Handler) GetPlacePhoto(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPlacePhoto")
	defer span.End()

	photoReference := r.URL.Query().Get("photoreference")
	if photoReference == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Photo reference parameter is required")
		return
	}
	maxWidth := intParam(r, "maxwidth", 800)

	http.Redirect(w, r, h.client.PhotoURL(photoReference, maxWidth), http.StatusFound)
}

// GetAutocomplete handles GET /api/places/autocomplete?input=&...
func (h *Handler) GetAutocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetAutocomplete")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetAutocomplete"))

	input := r.URL.Query().Get("input")
	if input == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Input parameter is required")
		return
	}

	opts := AutocompleteOptions{
		Types:        r.URL.Query().Get("types"),
		Components:   r.URL.Query().Get("components"),
		StrictBounds: r.URL.Query().Get("strictbounds") == "true",
	}
	if opts.Types == "" {
		opts.Types = "establishment"
	}
	params := map[string]string{"input": input, "types": opts.Types}
	if opts.Components != "" {
		params["components"] = opts.Components
	}
	if locParam := r.URL.Query().Get("location"); locParam != "" {
		if loc, err := parseLatLng(locParam); err == nil {
			opts.Location = loc
			opts.RadiusMeters = intParam(r, "radius", 50000)
			params["location"] = locParam
		}
	}

	key := cache.Key("autocomplete", params)
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	predictions, err := h.client.Autocomplete(ctx, input, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "autocomplete failed")
		h.renderError(w, r, l, err, "Failed to get autocomplete suggestions")
		return
	}

	payload := map[string]interface{}{"predictions": predictions}
	h.cache.Set(key, payload, autocompleteCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

// GetNearbyPlaces handles GET /api/places/nearby?location=&radius=&type=&keyword=&rankby=
func (h *Handler) GetNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetNearbyPlaces")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetNearbyPlaces"))

	locParam := r.URL.Query().Get("location")
	if locParam == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location parameter is required")
		return
	}
	loc, err := parseLatLng(locParam)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location must be formatted as lat,lng")
		return
	}

	opts := NearbyOptions{
		Location:     *loc,
		RadiusMeters: intParam(r, "radius", 5000),
		Type:         r.URL.Query().Get("type"),
		Keyword:      r.URL.Query().Get("keyword"),
		RankBy:       r.URL.Query().Get("rankby"),
	}
	params := map[string]string{
		"location": locParam,
		"radius":   strconv.Itoa(opts.RadiusMeters),
		"type":     opts.Type,
		"keyword":  opts.Keyword,
		"rankby":   opts.RankBy,
	}

	key := cache.Key("nearbysearch", params)
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	results, err := h.client.SearchNearby(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		h.renderError(w, r, l, err, "Failed to get nearby places")
		return
	}

	payload := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}
	h.cache.Set(key, payload, searchCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

// GetPopularDestinations handles GET /api/places/popular-destinations?name=&limit=
// Country names get a "popular tourist destinations in X" query; anything
// else is treated as a city or region.
func (h *Handler) GetPopularDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPopularDestinations")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPopularDestinations"))

	name := r.URL.Query().Get("name")
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location name parameter is required")
		return
	}
	limit := intParam(r, "limit", 10)

	var searchQuery string
	if knownCountries[strings.ToLower(strings.TrimSpace(name))] {
		searchQuery = fmt.Sprintf("popular tourist destinations in %s", name)
	} else {
		searchQuery = fmt.Sprintf("top attractions in %s", name)
	}

	key := cache.Key("popular-destinations", map[string]string{
		"query": searchQuery,
		"limit": strconv.Itoa(limit),
	})
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	results, err := h.client.SearchPlacesByQuery(ctx, searchQuery, SearchOptions{
		Limit: limit,
		Type:  "tourist_attraction",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "popular destinations search failed")
		h.renderError(w, r, l, err, "Failed to get popular destinations")
		return
	}

	payload := map[string]interface{}{
		"location":     name,
		"destinations": results,
		"showing":      len(results),
	}
	h.cache.Set(key, payload, popularCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error, message string) {
	var upstreamErr *types.UpstreamError
	switch {
	case errors.Is(err, types.ErrNotFound):
		l.WarnContext(r.Context(), message, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &upstreamErr):
		l.ErrorContext(r.Context(), message, slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, message, upstreamErr.Message)
	default:
		l.ErrorContext(r.Context(), message, slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, message, err.Error())
	}
}

func parseLatLng(s string) (*types.Coordinate, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	return &types.Coordinate{Lat: lat, Lng: lng}, nil
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}

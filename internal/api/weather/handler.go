package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-places-api/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-places-api/internal/api"
	"github.com/FACorreiaa/go-travel-places-api/internal/cache"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

const (
	currentCacheTTL  = 30 * time.Minute
	forecastCacheTTL = 3 * time.Hour
)

// PlaceResolver resolves a free-text location name to a place with
// coordinates. Satisfied by the places client.
type PlaceResolver interface {
	FindPlaceByQuery(ctx context.Context, query string) (*types.PlaceResult, error)
}

type Handler struct {
	resolver PlaceResolver
	client   API
	cache    *cache.Cache
	logger   *slog.Logger
}

func NewHandler(resolver PlaceResolver, client API, cache *cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		client:   client,
		cache:    cache,
		logger:   logger,
	}
}

// GetCurrentWeather handles GET /api/places/weather?name=
func (h *Handler) GetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetCurrentWeather")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCurrentWeather"))

	name := r.URL.Query().Get("name")
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location name parameter is required")
		return
	}

	key := cache.Key("weather", map[string]string{"location": name})
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	place, err := h.resolver.FindPlaceByQuery(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location resolve failed")
		h.renderError(w, r, l, err, "Failed to resolve location")
		return
	}
	if place.Location == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNoCoordinates.Error())
		return
	}

	snapshot, err := h.client.GetCurrentWeather(ctx, *place.Location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather fetch failed")
		h.renderError(w, r, l, err, "Failed to get location weather")
		return
	}

	payload := map[string]interface{}{
		"location": map[string]interface{}{
			"name":        place.Name,
			"address":     place.Address,
			"coordinates": place.Location,
			"place_id":    place.PlaceID,
		},
		"weather":   snapshot,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	h.cache.Set(key, payload, currentCacheTTL)
	api.WriteJSONResponse(w, r, http.StatusOK, payload)
}

// GetForecast handles GET /api/places/forecast?name=&days=
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetForecast")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetForecast"))

	name := r.URL.Query().Get("name")
	if name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location name parameter is required")
		return
	}
	days := 5
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			days = v
		}
	}

	key := cache.Key("forecast", map[string]string{
		"location": name,
		"days":     strconv.Itoa(days),
	})
	if cached, ok := h.cache.Get(key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		api.WriteJSONResponse(w, r, http.StatusOK, cached)
		return
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	place, err := h.resolver.FindPlaceByQuery(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location resolve failed")
		h.renderError(w, r, l, err, "Failed to resolve location")
		return
	}
	if place.Location == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNoCoordinates.Error())
		return
	}

	forecasts, err := h.client.GetForecast(ctx, *place.Location, days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forecast fetch failed")
		h.renderError(w, r, l, err, "Failed to get location forecast")
		return
	}

	payload := map[string]interface{}{
		"location": map[string]interface{}{
			"name":        place.Name,
			"address":     place.Address,
			"coordinates": place.Location,
			"place_id":    place.PlaceID,
		},
		"daily_forecasts": forecasts,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	h.cache.Set(key, payload, forecastCacheTTL)
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

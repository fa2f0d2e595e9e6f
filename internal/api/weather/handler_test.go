package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-places-api/internal/cache"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

type stubResolver struct {
	calls int
	place *types.PlaceResult
	err   error
}

func (s *stubResolver) FindPlaceByQuery(ctx context.Context, query string) (*types.PlaceResult, error) {
	s.calls++
	return s.place, s.err
}

type stubWeatherAPI struct {
	currentCalls  int
	snapshot      *types.WeatherSnapshot
	forecastCalls int
	forecastDays  int
	forecasts     []types.DailyForecast
	err           error
}

func (s *stubWeatherAPI) GetCurrentWeather(ctx context.Context, coord types.Coordinate) (*types.WeatherSnapshot, error) {
	s.currentCalls++
	return s.snapshot, s.err
}

func (s *stubWeatherAPI) GetForecast(ctx context.Context, coord types.Coordinate, days int) ([]types.DailyForecast, error) {
	s.forecastCalls++
	s.forecastDays = days
	return s.forecasts, s.err
}

func jaipurPlace() *types.PlaceResult {
	return &types.PlaceResult{
		PlaceID:  "pid-1",
		Name:     "Jaipur",
		Address:  "Jaipur, Rajasthan, India",
		Location: &types.Coordinate{Lat: 26.9124, Lng: 75.7873},
	}
}

func TestGetCurrentWeatherHandler(t *testing.T) {
	t.Run("missing name is a 400", func(t *testing.T) {
		handler := NewHandler(&stubResolver{}, &stubWeatherAPI{}, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/weather", nil)
		rr := httptest.NewRecorder()

		handler.GetCurrentWeather(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unresolvable location is a 404", func(t *testing.T) {
		resolver := &stubResolver{err: types.ErrNotFound}
		handler := NewHandler(resolver, &stubWeatherAPI{}, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/weather?name=Atlantis", nil)
		rr := httptest.NewRecorder()

		handler.GetCurrentWeather(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("place without coordinates is a 404", func(t *testing.T) {
		resolver := &stubResolver{place: &types.PlaceResult{PlaceID: "pid-1", Name: "Limbo"}}
		handler := NewHandler(resolver, &stubWeatherAPI{}, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/weather?name=Limbo", nil)
		rr := httptest.NewRecorder()

		handler.GetCurrentWeather(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("success wraps the snapshot and caches it", func(t *testing.T) {
		resolver := &stubResolver{place: jaipurPlace()}
		weatherAPI := &stubWeatherAPI{snapshot: &types.WeatherSnapshot{Main: "Clear", Description: "clear sky"}}
		handler := NewHandler(resolver, weatherAPI, cache.New(), testLogger())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/places/weather?name=Jaipur", nil)
			rr := httptest.NewRecorder()
			handler.GetCurrentWeather(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			location := body["location"].(map[string]interface{})
			assert.Equal(t, "Jaipur", location["name"])
			assert.Equal(t, "pid-1", location["place_id"])
			weather := body["weather"].(map[string]interface{})
			assert.Equal(t, "Clear", weather["main"])
			assert.NotEmpty(t, body["timestamp"])
		}
		assert.Equal(t, 1, resolver.calls)
		assert.Equal(t, 1, weatherAPI.currentCalls)
	})
}

func TestGetForecastHandler(t *testing.T) {
	t.Run("missing name is a 400", func(t *testing.T) {
		handler := NewHandler(&stubResolver{}, &stubWeatherAPI{}, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/forecast", nil)
		rr := httptest.NewRecorder()

		handler.GetForecast(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("passes the days parameter through", func(t *testing.T) {
		resolver := &stubResolver{place: jaipurPlace()}
		weatherAPI := &stubWeatherAPI{forecasts: []types.DailyForecast{{Date: "2026-08-29", DayName: "Saturday"}}}
		handler := NewHandler(resolver, weatherAPI, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/forecast?name=Jaipur&days=3", nil)
		rr := httptest.NewRecorder()

		handler.GetForecast(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, weatherAPI.forecastDays)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		daily := body["daily_forecasts"].([]interface{})
		require.Len(t, daily, 1)
	})

	t.Run("invalid days falls back to the default", func(t *testing.T) {
		resolver := &stubResolver{place: jaipurPlace()}
		weatherAPI := &stubWeatherAPI{forecasts: []types.DailyForecast{}}
		handler := NewHandler(resolver, weatherAPI, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/forecast?name=Jaipur&days=-1", nil)
		rr := httptest.NewRecorder()

		handler.GetForecast(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, weatherAPI.forecastDays)
	})

	t.Run("upstream failure is a 500 with details", func(t *testing.T) {
		resolver := &stubResolver{place: jaipurPlace()}
		weatherAPI := &stubWeatherAPI{err: &types.UpstreamError{Provider: "openweathermap", StatusCode: 502, Message: "service down"}}
		handler := NewHandler(resolver, weatherAPI, cache.New(), testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/places/forecast?name=Jaipur", nil)
		rr := httptest.NewRecorder()

		handler.GetForecast(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Failed to get location forecast", body["error"])
		assert.Equal(t, "service down", body["details"])
	})
}

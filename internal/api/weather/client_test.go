package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 5*time.Second, testLogger())
}

func TestGetCurrentWeather(t *testing.T) {
	t.Run("normalizes the current conditions", func(t *testing.T) {
		var gotQuery url.Values
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/weather", r.URL.Path)
			gotQuery = r.URL.Query()
			w.Write([]byte(`{
				"weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}],
				"main": {"temp": 31.4, "feels_like": 33.0, "temp_min": 29.0, "temp_max": 33.5, "humidity": 40, "pressure": 1008},
				"wind": {"speed": 3.6, "deg": 270},
				"clouds": {"all": 5},
				"visibility": 10000,
				"sys": {"sunrise": 1756440000, "sunset": 1756485600},
				"timezone": 19800
			}`))
		})

		snapshot, err := client.GetCurrentWeather(context.Background(), types.Coordinate{Lat: 26.9124, Lng: 75.7873})

		require.NoError(t, err)
		assert.Equal(t, "metric", gotQuery.Get("units"))
		assert.Equal(t, "test-key", gotQuery.Get("appid"))
		assert.Equal(t, "26.912400", gotQuery.Get("lat"))
		assert.Equal(t, "75.787300", gotQuery.Get("lon"))

		assert.Equal(t, "Clear", snapshot.Main)
		assert.Equal(t, "https://openweathermap.org/img/wn/01d@2x.png", snapshot.IconURL)
		assert.InDelta(t, 31.4, snapshot.Temperature.Current, 1e-9)
		assert.Equal(t, "celsius", snapshot.Temperature.Unit)
		assert.Equal(t, 40, snapshot.Humidity)
		assert.Equal(t, 5, snapshot.Clouds)
		assert.Equal(t, "m/s", snapshot.Wind.Unit)
		assert.Equal(t, 19800, snapshot.TimezoneOffset)
		assert.Equal(t, time.Unix(1756440000, 0).UTC(), snapshot.Sunrise)
	})

	t.Run("missing conditions surface as upstream error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"weather": [], "main": {"temp": 20}}`))
		})

		_, err := client.GetCurrentWeather(context.Background(), types.Coordinate{})

		var upstreamErr *types.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, "openweathermap", upstreamErr.Provider)
	})

	t.Run("http failure surfaces as upstream error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
		})

		_, err := client.GetCurrentWeather(context.Background(), types.Coordinate{})

		var upstreamErr *types.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
		assert.Contains(t, upstreamErr.Message, "Invalid API key")
	})
}

func forecastSlotJSON(at time.Time, condition string, temp float64, humidity int, pop float64) string {
	return fmt.Sprintf(`{
		"dt": %d,
		"weather": [{"main": %q, "description": %q, "icon": "10d"}],
		"main": {"temp": %f, "feels_like": %f, "humidity": %d},
		"wind": {"speed": 2.5, "deg": 180},
		"clouds": {"all": 75},
		"pop": %f
	}`, at.Unix(), condition, condition, temp, temp, humidity, pop)
}

func TestGetForecast(t *testing.T) {
	day1 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC) // Saturday
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	slots := []string{
		forecastSlotJSON(day1.Add(9*time.Hour), "Clear", 30, 40, 0),
		forecastSlotJSON(day1.Add(15*time.Hour), "Rain", 26, 80, 0.6),
		forecastSlotJSON(day1.Add(18*time.Hour), "Rain", 24, 85, 0.9),
		forecastSlotJSON(day2.Add(12*time.Hour), "Clouds", 28, 55, 0.1),
		forecastSlotJSON(day3.Add(12*time.Hour), "Clear", 32, 35, 0),
	}
	payload := `{"list": [` + slots[0]
	for _, s := range slots[1:] {
		payload += "," + s
	}
	payload += `]}`

	newForecastClient := func(t *testing.T) *Client {
		return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/forecast", r.URL.Path)
			w.Write([]byte(payload))
		})
	}

	t.Run("groups slots by UTC day in order", func(t *testing.T) {
		client := newForecastClient(t)

		forecasts, err := client.GetForecast(context.Background(), types.Coordinate{}, 5)

		require.NoError(t, err)
		require.Len(t, forecasts, 3)
		assert.Equal(t, "2026-08-29", forecasts[0].Date)
		assert.Equal(t, "Saturday", forecasts[0].DayName)
		assert.Len(t, forecasts[0].Forecasts, 3)
		assert.Equal(t, "2026-08-30", forecasts[1].Date)
		assert.Equal(t, "2026-08-31", forecasts[2].Date)
	})

	t.Run("summarizes each day", func(t *testing.T) {
		client := newForecastClient(t)

		forecasts, err := client.GetForecast(context.Background(), types.Coordinate{}, 5)

		require.NoError(t, err)
		summary := forecasts[0].Summary
		require.NotNil(t, summary)
		assert.Equal(t, "Rain", summary.Condition)
		assert.InDelta(t, 24, summary.MinTemp, 1e-9)
		assert.InDelta(t, 30, summary.MaxTemp, 1e-9)
		assert.Equal(t, 68, summary.AvgHumidity) // (40+80+85)/3 rounded
		assert.Equal(t, 90, summary.PrecipitationChance)
	})

	t.Run("limits to the requested number of days", func(t *testing.T) {
		client := newForecastClient(t)

		forecasts, err := client.GetForecast(context.Background(), types.Coordinate{}, 2)

		require.NoError(t, err)
		require.Len(t, forecasts, 2)
		assert.Equal(t, "2026-08-29", forecasts[0].Date)
		assert.Equal(t, "2026-08-30", forecasts[1].Date)
	})

	t.Run("entries carry precipitation as a percentage", func(t *testing.T) {
		client := newForecastClient(t)

		forecasts, err := client.GetForecast(context.Background(), types.Coordinate{}, 1)

		require.NoError(t, err)
		entries := forecasts[0].Forecasts
		require.Len(t, entries, 3)
		assert.InDelta(t, 0, entries[0].PrecipChance, 1e-9)
		assert.InDelta(t, 60, entries[1].PrecipChance, 1e-9)
		assert.InDelta(t, 90, entries[2].PrecipChance, 1e-9)
	})
}

func TestSummarizeDayEmpty(t *testing.T) {
	assert.Nil(t, summarizeDay(nil))
}

func TestDailyForecastOmitsEmptySummary(t *testing.T) {
	day := types.DailyForecast{Date: "2026-08-29", DayName: "Saturday"}
	raw, err := json.Marshal(day)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "summary")
}

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-travel-places-api/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// API is the weather-provider contract the handlers depend on.
type API interface {
	GetCurrentWeather(ctx context.Context, coord types.Coordinate) (*types.WeatherSnapshot, error)
	GetForecast(ctx context.Context, coord types.Coordinate, days int) ([]types.DailyForecast, error)
}

// --- Raw wire shapes of the OpenWeatherMap API ---

type rawCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type rawMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type rawWind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type rawClouds struct {
	All int `json:"all"`
}

type currentResponse struct {
	Weather    []rawCondition `json:"weather"`
	Main       rawMain        `json:"main"`
	Wind       rawWind        `json:"wind"`
	Clouds     rawClouds      `json:"clouds"`
	Visibility int            `json:"visibility"`
	Sys        struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

type forecastSlot struct {
	Dt      int64          `json:"dt"`
	Weather []rawCondition `json:"weather"`
	Main    rawMain        `json:"main"`
	Wind    rawWind        `json:"wind"`
	Clouds  rawClouds      `json:"clouds"`
	Pop     float64        `json:"pop"`
}

type forecastResponse struct {
	List []forecastSlot `json:"list"`
}

// Client issues requests against the OpenWeatherMap API and normalizes its
// responses. Requests are never retried.
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

// GetCurrentWeather returns normalized current conditions at a coordinate.
func (c *Client) GetCurrentWeather(ctx context.Context, coord types.Coordinate) (*types.WeatherSnapshot, error) {
	var resp currentResponse
	if err := c.doJSON(ctx, "weather", coord, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Weather) == 0 {
		return nil, &types.UpstreamError{
			Provider:   "openweathermap",
			StatusCode: http.StatusBadGateway,
			Message:    "response carried no weather conditions",
		}
	}

	condition := resp.Weather[0]
	snapshot := &types.WeatherSnapshot{
		Main:        condition.Main,
		Description: condition.Description,
		Icon:        condition.Icon,
		IconURL:     fmt.Sprintf(iconURLFormat, condition.Icon),
		Temperature: types.Temperature{
			Current:   resp.Main.Temp,
			FeelsLike: resp.Main.FeelsLike,
			Min:       resp.Main.TempMin,
			Max:       resp.Main.TempMax,
			Unit:      "celsius",
		},
		Humidity:       resp.Main.Humidity,
		Pressure:       resp.Main.Pressure,
		Wind:           types.Wind{Speed: resp.Wind.Speed, Deg: resp.Wind.Deg, Unit: "m/s"},
		Clouds:         resp.Clouds.All,
		Visibility:     resp.Visibility,
		Sunrise:        time.Unix(resp.Sys.Sunrise, 0).UTC(),
		Sunset:         time.Unix(resp.Sys.Sunset, 0).UTC(),
		TimezoneOffset: resp.Timezone,
	}
	return snapshot, nil
}

// GetForecast returns the 3-hourly forecast grouped by calendar day (UTC),
// each day carrying a summary, limited to the requested number of days.
func (c *Client) GetForecast(ctx context.Context, coord types.Coordinate, days int) ([]types.DailyForecast, error) {
	if days <= 0 {
		days = 5
	}

	var resp forecastResponse
	if err := c.doJSON(ctx, "forecast", coord, nil, &resp); err != nil {
		return nil, err
	}

	byDay := map[string]*types.DailyForecast{}
	for _, slot := range resp.List {
		if len(slot.Weather) == 0 {
			continue
		}
		at := time.Unix(slot.Dt, 0).UTC()
		dayKey := at.Format("2006-01-02")

		day, ok := byDay[dayKey]
		if !ok {
			day = &types.DailyForecast{
				Date:    dayKey,
				DayName: at.Weekday().String(),
			}
			byDay[dayKey] = day
		}

		condition := slot.Weather[0]
		day.Forecasts = append(day.Forecasts, types.ForecastEntry{
			Time:          at,
			Main:          condition.Main,
			Description:   condition.Description,
			Icon:          condition.Icon,
			IconURL:       fmt.Sprintf(iconURLFormat, condition.Icon),
			Temperature:   slot.Main.Temp,
			FeelsLike:     slot.Main.FeelsLike,
			Humidity:      slot.Main.Humidity,
			WindSpeed:     slot.Wind.Speed,
			WindDirection: slot.Wind.Deg,
			Clouds:        slot.Clouds.All,
			PrecipChance:  slot.Pop * 100,
		})
	}

	forecasts := make([]types.DailyForecast, 0, len(byDay))
	for _, day := range byDay {
		day.Summary = summarizeDay(day.Forecasts)
		forecasts = append(forecasts, *day)
	}
	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].Date < forecasts[j].Date })
	if len(forecasts) > days {
		forecasts = forecasts[:days]
	}
	return forecasts, nil
}

// summarizeDay condenses one day's slots: temperature envelope, the most
// frequent condition, average humidity and the day's peak precipitation
// chance.
func summarizeDay(entries []types.ForecastEntry) *types.DailySummary {
	if len(entries) == 0 {
		return nil
	}

	summary := &types.DailySummary{
		MinTemp: entries[0].Temperature,
		MaxTemp: entries[0].Temperature,
	}

	conditionCounts := map[string]int{}
	humiditySum := 0
	maxPop := 0.0
	for _, e := range entries {
		if e.Temperature < summary.MinTemp {
			summary.MinTemp = e.Temperature
		}
		if e.Temperature > summary.MaxTemp {
			summary.MaxTemp = e.Temperature
		}
		conditionCounts[e.Main]++
		humiditySum += e.Humidity
		if e.PrecipChance > maxPop {
			maxPop = e.PrecipChance
		}
	}

	maxCount := 0
	for condition, count := range conditionCounts {
		if count > maxCount || (count == maxCount && condition < summary.Condition) {
			summary.Condition = condition
			maxCount = count
		}
	}
	for _, e := range entries {
		if e.Main == summary.Condition {
			summary.Icon = e.Icon
			summary.IconURL = e.IconURL
			break
		}
	}

	summary.AvgHumidity = int(float64(humiditySum)/float64(len(entries)) + 0.5)
	summary.PrecipitationChance = int(maxPop + 0.5)
	return summary
}

func (c *Client) doJSON(ctx context.Context, endpoint string, coord types.Coordinate, extra url.Values, out interface{}) error {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("provider", "openweathermap"),
		attribute.String("endpoint", endpoint),
	)

	params := url.Values{}
	for name, vals := range extra {
		for _, v := range vals {
			params.Add(name, v)
		}
	}
	params.Set("lat", fmt.Sprintf("%f", coord.Lat))
	params.Set("lon", fmt.Sprintf("%f", coord.Lng))
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}

	c.logger.DebugContext(ctx, "Issuing weather request", slog.String("endpoint", endpoint))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	m.UpstreamRequestsTotal.Add(ctx, 1, attrs)
	m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &types.UpstreamError{
			Provider:   "openweathermap",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		return &types.UpstreamError{
			Provider:   "openweathermap",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response body: %v", err),
		}
	}
	return nil
}

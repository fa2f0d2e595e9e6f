package types

import "time"

// Temperature groups the metric temperature readings of one observation.
type Temperature struct {
	Current   float64 `json:"current"`
	FeelsLike float64 `json:"feels_like"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Unit      string  `json:"unit"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Unit  string  `json:"unit"`
}

// WeatherSnapshot is the normalized current-conditions report for one
// coordinate.
type WeatherSnapshot struct {
	Main           string      `json:"main"`
	Description    string      `json:"description"`
	Icon           string      `json:"icon"`
	IconURL        string      `json:"icon_url"`
	Temperature    Temperature `json:"temperature"`
	Humidity       int         `json:"humidity"`
	Pressure       int         `json:"pressure"`
	Wind           Wind        `json:"wind"`
	Clouds         int         `json:"clouds"`
	Visibility     int         `json:"visibility"`
	Sunrise        time.Time   `json:"sunrise"`
	Sunset         time.Time   `json:"sunset"`
	TimezoneOffset int         `json:"timezone"`
}

// ForecastEntry is a single 3-hour forecast slot.
type ForecastEntry struct {
	Time          time.Time `json:"time"`
	Main          string    `json:"main"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	IconURL       string    `json:"icon_url"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Humidity      int       `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection int       `json:"wind_direction"`
	Clouds        int       `json:"clouds"`
	// Probability of precipitation as a percentage.
	PrecipChance float64 `json:"pop"`
}

// DailySummary condenses one day's forecast slots: temperature envelope and
// the condition that occurred most often across the day.
type DailySummary struct {
	Condition           string  `json:"condition"`
	Icon                string  `json:"icon"`
	IconURL             string  `json:"icon_url"`
	MinTemp             float64 `json:"min_temp"`
	MaxTemp             float64 `json:"max_temp"`
	AvgHumidity         int     `json:"avg_humidity"`
	PrecipitationChance int     `json:"precipitation_chance"`
}

// DailyForecast groups forecast entries by calendar day (UTC).
type DailyForecast struct {
	Date      string          `json:"date"`
	DayName   string          `json:"day_name"`
	Forecasts []ForecastEntry `json:"forecasts"`
	Summary   *DailySummary   `json:"summary,omitempty"`
}

// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-travel-places-api/internal/api/places"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/tripplanner"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/weather"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlacesHandler      *places.Handler
	WeatherHandler     *weather.Handler
	TripPlannerHandler *tripplanner.Handler
	CORSOrigins        []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer, rate limiting) are
// expected to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"OK"}`))
	})

	r.Route("/api/places", func(r chi.Router) {
		r.Get("/search", cfg.PlacesHandler.SearchPlaces)
		r.Get("/details", cfg.PlacesHandler.GetPlaceDetails)
		r.Get("/photo", cfg.PlacesHandler.GetPlacePhoto)
		r.Get("/autocomplete", cfg.PlacesHandler.GetAutocomplete)
		r.Get("/nearby", cfg.PlacesHandler.GetNearbyPlaces)
		r.Get("/popular-destinations", cfg.PlacesHandler.GetPopularDestinations)

		r.Get("/trip-planner", cfg.TripPlannerHandler.GetTripPlan)

		r.Get("/weather", cfg.WeatherHandler.GetCurrentWeather)
		r.Get("/forecast", cfg.WeatherHandler.GetForecast)
	})

	return r
}

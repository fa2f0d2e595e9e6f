package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	UpstreamRequestsTotal   metric.Int64Counter
	UpstreamErrorsTotal     metric.Int64Counter
	UpstreamDurationSeconds metric.Float64Histogram
	CacheHitsTotal          metric.Int64Counter
	CacheMissesTotal        metric.Int64Counter
	TripPlansTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get returns the process-wide AppMetrics instance, creating the instruments
// on first use. Without a configured MeterProvider the global provider is a
// no-op, so callers never need to guard recording.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TravelPlacesAPI")
		var err error
		m := &AppMetrics{}

		m.UpstreamRequestsTotal, err = meter.Int64Counter(
			"upstream_requests_total",
			metric.WithDescription("Total number of requests issued to external providers"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_requests_total: %v", err)
		}

		m.UpstreamErrorsTotal, err = meter.Int64Counter(
			"upstream_errors_total",
			metric.WithDescription("Total number of failed external provider requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_errors_total: %v", err)
		}

		m.UpstreamDurationSeconds, err = meter.Float64Histogram(
			"upstream_request_duration_seconds",
			metric.WithDescription("Duration of external provider requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_request_duration_seconds: %v", err)
		}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"cache_hits_total",
			metric.WithDescription("Total number of cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"cache_misses_total",
			metric.WithDescription("Total number of cache misses"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_misses_total: %v", err)
		}

		m.TripPlansTotal, err = meter.Int64Counter(
			"trip_plans_total",
			metric.WithDescription("Total number of trip planner aggregations built"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plans_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}

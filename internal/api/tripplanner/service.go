package tripplanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-places-api/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/places"
	"github.com/FACorreiaa/go-travel-places-api/internal/cache"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

const defaultCategoryLimit = 20

// PlacesClient is the slice of the places API the aggregator needs.
type PlacesClient interface {
	FindPlaceByQuery(ctx context.Context, query string) (*types.PlaceResult, error)
	SearchPlacesByQuery(ctx context.Context, query string, opts places.SearchOptions) ([]types.PlaceResult, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the trip planner business logic contract.
type Service interface {
	PlanTrip(ctx context.Context, location string, limit int) (*types.TripPlannerResponse, error)
}

// ServiceImpl aggregates several category searches into one composite trip
// plan: resolve the destination, fan out one search per category, annotate
// distances, rank and deduplicate, cache the result.
type ServiceImpl struct {
	logger        *slog.Logger
	places        PlacesClient
	cache         *cache.Cache
	wellKnown     WellKnownTable
	topRatedLimit int
	wellKnownTTL  time.Duration
	defaultTTL    time.Duration
}

func NewService(placesClient PlacesClient, c *cache.Cache, wellKnown WellKnownTable, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		places:        placesClient,
		cache:         c,
		wellKnown:     wellKnown,
		topRatedLimit: 10,
		wellKnownTTL:  24 * time.Hour,
		defaultTTL:    time.Hour,
	}
}

// WithTTLs overrides the cache TTL policy. Used by main to apply configured
// values; tests shorten them.
func (s *ServiceImpl) WithTTLs(wellKnownTTL, defaultTTL time.Duration) *ServiceImpl {
	if wellKnownTTL > 0 {
		s.wellKnownTTL = wellKnownTTL
	}
	if defaultTTL > 0 {
		s.defaultTTL = defaultTTL
	}
	return s
}

// WithTopRatedLimit overrides the size of the synthetic Top Rated list.
func (s *ServiceImpl) WithTopRatedLimit(limit int) *ServiceImpl {
	if limit > 0 {
		s.topRatedLimit = limit
	}
	return s
}

// PlanTrip builds the composite trip plan for a free-text location name.
// Returns types.ErrNotFound when the location does not resolve or every
// category comes back empty.
func (s *ServiceImpl) PlanTrip(ctx context.Context, location string, limit int) (*types.TripPlannerResponse, error) {
	ctx, span := otel.Tracer("TripPlannerService").Start(ctx, "PlanTrip")
	defer span.End()

	l := s.logger.With(slog.String("method", "PlanTrip"), slog.String("location", location))

	if limit <= 0 {
		limit = defaultCategoryLimit
	}

	canonical, wellKnown := s.wellKnown.Resolve(location)
	span.SetAttributes(
		attribute.String("tripplanner.location", canonical),
		attribute.Bool("tripplanner.well_known", wellKnown),
	)

	key := cache.Key("trip-planner", map[string]string{"location": canonical})
	if cached, ok := s.cache.Get(key); ok {
		if resp, ok := cached.(*types.TripPlannerResponse); ok {
			metrics.Get().CacheHitsTotal.Add(ctx, 1)
			l.DebugContext(ctx, "Returning cached trip plan")
			return resp, nil
		}
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	destination, err := s.places.FindPlaceByQuery(ctx, canonical)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "destination resolve failed")
		return nil, err
	}
	if destination.Location == nil {
		return nil, fmt.Errorf("destination %q: %w", canonical, types.ErrNoCoordinates)
	}
	destCoord := *destination.Location

	categories := categoriesFor(canonical, wellKnown)
	results := make([]types.CategorizedPlaces, len(categories))

	// Join barrier: every branch records its own outcome and never returns
	// an error, so one failed category cannot abort the others.
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			found, err := s.places.SearchPlacesByQuery(gctx, category.Query, places.SearchOptions{Limit: limit})
			if err != nil {
				l.WarnContext(gctx, "Category fetch failed",
					slog.String("category", category.Name),
					slog.Any("error", err),
				)
				results[i] = types.CategorizedPlaces{
					Category: category.Name,
					Places:   []types.PlaceResult{},
					Err:      fmt.Sprintf("failed to fetch %s data", category.Name),
				}
				return nil
			}

			for j := range found {
				annotateDistance(&found[j], destCoord)
			}
			sortByRating(found)
			results[i] = types.CategorizedPlaces{Category: category.Name, Places: found}
			return nil
		})
	}
	_ = g.Wait()

	kept := dropEmpty(results)
	if len(kept) == 0 {
		return nil, fmt.Errorf("no places found for %q: %w", location, types.ErrNotFound)
	}

	top, totalUnique := topRated(kept, s.topRatedLimit)
	final := make([]types.CategorizedPlaces, 0, len(kept)+1)
	final = append(final, types.CategorizedPlaces{Category: "Top Rated", Places: top})
	final = append(final, kept...)

	resp := &types.TripPlannerResponse{
		Destination: types.TripDestination{
			Name:           destination.Name,
			Address:        destination.Address,
			Location:       destCoord,
			PlaceID:        destination.PlaceID,
			PhotoReference: destination.PhotoReference,
		},
		Categories:       final,
		TotalPlacesFound: totalUnique,
	}

	ttl := s.defaultTTL
	if wellKnown {
		ttl = s.wellKnownTTL
	}
	s.cache.Set(key, resp, ttl)
	metrics.Get().TripPlansTotal.Add(ctx, 1)

	l.InfoContext(ctx, "Trip plan built",
		slog.Int("categories", len(final)),
		slog.Int("total_places", totalUnique),
		slog.Bool("well_known", wellKnown),
	)
	return resp, nil
}

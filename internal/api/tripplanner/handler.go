package tripplanner

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-places-api/internal/api"
	"github.com/FACorreiaa/go-travel-places-api/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetTripPlan handles GET /api/places/trip-planner?location=&limit=
func (h *Handler) GetTripPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlannerHandler").Start(r.Context(), "GetTripPlan")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetTripPlan"))

	location := r.URL.Query().Get("location")
	if location == "" {
		l.WarnContext(ctx, "Missing location parameter")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location parameter is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = v
	}

	resp, err := h.service.PlanTrip(ctx, location, limit)
	if err != nil {
		span.RecordError(err)
		var upstreamErr *types.UpstreamError
		switch {
		case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrNoCoordinates):
			span.SetStatus(codes.Error, "location not found")
			l.WarnContext(ctx, "Trip plan not found", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
		case errors.As(err, &upstreamErr):
			span.SetStatus(codes.Error, "upstream failure")
			l.ErrorContext(ctx, "Trip plan upstream failure", slog.Any("error", err))
			api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, "Failed to get trip planner data", upstreamErr.Message)
		default:
			span.SetStatus(codes.Error, "trip plan failed")
			l.ErrorContext(ctx, "Trip plan failed", slog.Any("error", err))
			api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, "Failed to get trip planner data", err.Error())
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

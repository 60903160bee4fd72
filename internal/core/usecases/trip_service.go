package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/daytour/planner/internal/core/cities"
	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/core/ports"
	"github.com/daytour/planner/internal/core/validation"
	"github.com/daytour/planner/internal/pkg/logging"
	"github.com/daytour/planner/internal/pkg/metrics"
	"github.com/daytour/planner/internal/pkg/telemetry"
)

// cacheCellLevel is the S2 level used to bucket start locations in cache keys (~10 m cells).
const cacheCellLevel = 20

// TripService gates route requests on location validation and forwards them to the routing backend.
type TripService struct {
	planner   ports.RoutePlanner
	cache     ports.CacheService
	publisher ports.EventPublisher
	cacheTTL  int

	now   func() time.Time
	newID func() string
}

// NewTripService creates a new TripService. cache and publisher may be nil.
func NewTripService(planner ports.RoutePlanner, cache ports.CacheService, publisher ports.EventPublisher, cacheTTLSeconds int) *TripService {
	return &TripService{
		planner:   planner,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTLSeconds,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// PlanRoute validates the request and asks the backend for an optimised tour.
func (s *TripService) PlanRoute(ctx context.Context, req domain.RouteRequest) (*domain.RoutePlan, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPlanRoute)
	defer span.End()

	city, mode, err := resolve(req.City, req.TransportMode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String(telemetry.AttrCity, string(city.Key)),
		attribute.String(telemetry.AttrTransportMode, string(mode)),
	)

	if err := s.checkLocation(ctx, "calculate", city, "start_location_coords", req.StartLocation); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if req.EndLocation != nil {
		if err := s.checkLocation(ctx, "calculate", city, "end_location_coords", req.EndLocation); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	req.City = string(city.Key)
	req.TransportMode = string(mode)

	key := routeCacheKey(city.Key, mode, req)
	if plan, ok := s.cachedPlan(ctx, key); ok {
		span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
		metrics.RouteRequests.WithLabelValues("calculate", string(city.Key), string(mode), "cached").Inc()
		return plan, nil
	}
	span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, false))

	result, err := s.planner.CalculateRoute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		metrics.RouteRequests.WithLabelValues("calculate", string(city.Key), string(mode), "backend_error").Inc()
		logging.FromContext(ctx).Error("calculate route failed", "city", city.Key, "mode", mode, "error", err)
		return nil, fmt.Errorf("calculate route: %w", err)
	}

	plan := s.newPlan(city.Key, mode, *result)
	s.storePlan(ctx, key, plan)
	metrics.RouteRequests.WithLabelValues("calculate", string(city.Key), string(mode), "ok").Inc()

	s.publish(ctx, "route planned", func(ctx context.Context) error {
		return s.publisher.PublishRoutePlanned(ctx, planEvent(plan))
	})

	return plan, nil
}

// RecalculateRoute re-plans the remaining tour from the traveller's current location.
// Visited locations are removed from the remaining destinations. Results are never cached.
func (s *TripService) RecalculateRoute(ctx context.Context, req domain.RecalculateRequest) (*domain.RoutePlan, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanRecalculateRoute)
	defer span.End()

	city, mode, err := resolve(req.City, req.TransportMode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String(telemetry.AttrCity, string(city.Key)),
		attribute.String(telemetry.AttrTransportMode, string(mode)),
	)

	if err := s.checkLocation(ctx, "recalculate", city, "current_location_coords", req.CurrentLocation); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req.City = string(city.Key)
	req.TransportMode = string(mode)
	req.RemainingDestinations = withoutVisited(req.RemainingDestinations, req.VisitedLocations)

	result, err := s.planner.RecalculateRoute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		metrics.RouteRequests.WithLabelValues("recalculate", string(city.Key), string(mode), "backend_error").Inc()
		logging.FromContext(ctx).Error("recalculate route failed", "city", city.Key, "mode", mode, "error", err)
		return nil, fmt.Errorf("recalculate route: %w", err)
	}

	plan := s.newPlan(city.Key, mode, *result)
	metrics.RouteRequests.WithLabelValues("recalculate", string(city.Key), string(mode), "ok").Inc()

	s.publish(ctx, "route recalculated", func(ctx context.Context) error {
		return s.publisher.PublishRouteRecalculated(ctx, planEvent(plan))
	})

	return plan, nil
}

// resolve looks up the city and picks the transport mode, defaulting to the city's first mode.
func resolve(rawCity, rawMode string) (domain.City, domain.TransportMode, error) {
	city, ok := cities.Lookup(rawCity)
	if !ok {
		return domain.City{}, "", fmt.Errorf("%w: %q", domain.ErrUnknownCity, rawCity)
	}

	if strings.TrimSpace(rawMode) == "" {
		return city, city.DefaultMode(), nil
	}

	mode, err := domain.ParseTransportMode(rawMode)
	if err != nil {
		return domain.City{}, "", err
	}
	if !city.AllowsMode(mode) {
		return domain.City{}, "", fmt.Errorf("%w: %s is not offered in %s", domain.ErrUnsupportedMode, mode, city.Name)
	}
	return city, mode, nil
}

// checkLocation runs the location validator and reports rejections before any network call is made.
func (s *TripService) checkLocation(ctx context.Context, kind string, city domain.City, field string, coords []float64) error {
	result, outcome := validation.Evaluate(coords, string(city.Key))
	metrics.LocationValidations.WithLabelValues(string(city.Key), string(outcome)).Inc()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(telemetry.AttrOutcome, string(outcome)))
	if result.IsValid() {
		return nil
	}

	logging.FromContext(ctx).Debug("route request rejected",
		"city", city.Key,
		"field", field,
		"reason", result.Message(),
	)
	metrics.RouteRequests.WithLabelValues(kind, string(city.Key), "", "rejected").Inc()

	s.publish(ctx, "location rejected", func(ctx context.Context) error {
		return s.publisher.PublishLocationRejected(ctx, &domain.TripEvent{
			City:   city.Key,
			Reason: result.Message(),
			At:     s.now().UTC(),
		})
	})

	return &domain.LocationError{Field: field, Result: result}
}

func (s *TripService) newPlan(city domain.CityKey, mode domain.TransportMode, result domain.RouteResult) *domain.RoutePlan {
	return &domain.RoutePlan{
		ID:        s.newID(),
		City:      city,
		Mode:      mode,
		CreatedAt: s.now().UTC(),
		Result:    result,
	}
}

func (s *TripService) cachedPlan(ctx context.Context, key string) (*domain.RoutePlan, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}
	var plan domain.RoutePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("route").Inc()
	plan.Cached = true
	return &plan, true
}

func (s *TripService) storePlan(ctx context.Context, key string, plan *domain.RoutePlan) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logging.FromContext(ctx).Warn("cache route plan", "key", key, "error", err)
	}
}

// publish sends an event best-effort; broker failures never fail the request.
func (s *TripService) publish(ctx context.Context, what string, fn func(context.Context) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		logging.FromContext(ctx).Warn("publish "+what, "error", err)
	}
}

func planEvent(plan *domain.RoutePlan) *domain.TripEvent {
	return &domain.TripEvent{
		PlanID:    plan.ID,
		City:      plan.City,
		Mode:      plan.Mode,
		Stops:     len(plan.Result.Route),
		TotalTime: plan.Result.TotalTime,
		At:        plan.CreatedAt,
	}
}

// routeCacheKey buckets the start and end coordinates into S2 cells and hashes the rest of the request.
func routeCacheKey(city domain.CityKey, mode domain.TransportMode, req domain.RouteRequest) string {
	dests := append([]string(nil), req.Destinations...)
	sort.Strings(dests)

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", req.StartLocationName, req.EndLocationName, cellToken(req.EndLocation))
	h.Write([]byte(strings.Join(dests, "\x00")))

	return fmt.Sprintf("route:%s:%s:%s:%s", city, mode, cellToken(req.StartLocation), hex.EncodeToString(h.Sum(nil)[:12]))
}

func cellToken(coords []float64) string {
	if len(coords) != 2 {
		return "-"
	}
	ll := s2.LatLngFromDegrees(coords[0], coords[1])
	return s2.CellIDFromLatLng(ll).Parent(cacheCellLevel).ToToken()
}

func withoutVisited(remaining, visited []string) []string {
	if len(remaining) == 0 || len(visited) == 0 {
		return remaining
	}
	seen := make(map[string]struct{}, len(visited))
	for _, v := range visited {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(remaining))
	for _, r := range remaining {
		if _, ok := seen[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// IsRejection reports whether err is a client-side rejection rather than a backend failure.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidLocation) ||
		errors.Is(err, domain.ErrUnknownCity) ||
		errors.Is(err, domain.ErrUnsupportedMode)
}

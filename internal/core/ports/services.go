package ports

import (
	"context"

	"github.com/daytour/planner/internal/core/domain"
)

// RoutePlanner is the external route-optimisation backend.
type RoutePlanner interface {
	CalculateRoute(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error)
	RecalculateRoute(ctx context.Context, req domain.RecalculateRequest) (*domain.RouteResult, error)
}

// EventPublisher publishes trip events to a message broker.
type EventPublisher interface {
	PublishRoutePlanned(ctx context.Context, event *domain.TripEvent) error
	PublishRouteRecalculated(ctx context.Context, event *domain.TripEvent) error
	PublishLocationRejected(ctx context.Context, event *domain.TripEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

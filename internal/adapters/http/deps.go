package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/daytour/planner/internal/core/usecases"
)

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Locations *usecases.LocationService
	Trips     *usecases.TripService
	NATS      *nats.Conn
	Cache     Pinger
	Backend   Pinger

	// RouteTimeout bounds route calculation requests. Zero means 90s.
	RouteTimeout time.Duration
}

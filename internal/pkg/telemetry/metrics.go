package telemetry

// Span names.
const (
	SpanPlanRoute        = "trip.plan_route"
	SpanRecalculateRoute = "trip.recalculate_route"
	SpanBackendCall      = "routing.backend_call"
)

// Span attribute keys.
const (
	AttrCity          = "daytour.city"
	AttrTransportMode = "daytour.transport_mode"
	AttrCacheHit      = "daytour.cache_hit"
	AttrOutcome       = "daytour.validation_outcome"
	AttrEndpoint      = "daytour.backend_endpoint"
)

// TracerName is the instrumentation scope used by every span in this service.
const TracerName = "github.com/daytour/planner"

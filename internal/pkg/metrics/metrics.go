package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daytour",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daytour",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Trip planning metrics
	LocationValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "location",
		Name:      "validations_total",
		Help:      "Location validations by city and deciding check",
	}, []string{"city", "outcome"})

	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "trip",
		Name:      "route_requests_total",
		Help:      "Route calculation requests by outcome",
	}, []string{"kind", "city", "mode", "status"})

	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daytour",
		Subsystem: "routing",
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of calls to the route-optimisation backend",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	BackendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "routing",
		Name:      "backend_errors_total",
		Help:      "Failed calls to the route-optimisation backend",
	}, []string{"endpoint", "kind"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "daytour",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active live-validation WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytour",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Trip events published to the broker",
	}, []string{"subject", "status"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// fiber resolves the matched route pattern, which keeps cardinality low
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

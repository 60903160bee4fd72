package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/daytour/planner/internal/pkg/metrics"
)

const defaultRouteTimeout = 90 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// Live validation sockets hold one long-lived connection.
			return websocket.IsWebSocketUpgrade(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	routeTimeout := deps.RouteTimeout
	if routeTimeout <= 0 {
		routeTimeout = defaultRouteTimeout
	}

	v1 := app.Group("/v1")
	v1.Get("/cities", ListCitiesHandler(deps))
	v1.Get("/cities/:city", GetCityHandler(deps))
	v1.Get("/cities/:city/range-message", RangeMessageHandler(deps))
	v1.Post("/locations/validate", ValidateLocationHandler(deps))
	v1.Post("/routes/calculate", timeout.NewWithContext(CalculateRouteHandler(deps), routeTimeout))
	v1.Post("/routes/recalculate", timeout.NewWithContext(RecalculateRouteHandler(deps), routeTimeout))

	// Unversioned paths used by the original web client
	deprecated := DeprecationMiddleware(legacyRoutes)
	app.Post("/calculate-route", deprecated, timeout.NewWithContext(CalculateRouteHandler(deps), routeTimeout))
	app.Post("/recalculate-route", deprecated, timeout.NewWithContext(RecalculateRouteHandler(deps), routeTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/validate", websocket.New(WebSocketHandler(deps)))
}

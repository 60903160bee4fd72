package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/daytour/planner/internal/adapters/http"
	natsadapter "github.com/daytour/planner/internal/adapters/nats"
	"github.com/daytour/planner/internal/adapters/routing"
	"github.com/daytour/planner/internal/adapters/valkey"
	"github.com/daytour/planner/internal/core/ports"
	"github.com/daytour/planner/internal/core/usecases"
	"github.com/daytour/planner/internal/pkg/config"
	"github.com/daytour/planner/internal/pkg/logging"
	"github.com/daytour/planner/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("daytour-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		Locations:    usecases.NewLocationService(),
		RouteTimeout: time.Duration(cfg.Routing.Timeout+5) * time.Second,
	}

	// Route-optimisation backend
	backend := routing.New(cfg.Routing.BaseURL, time.Duration(cfg.Routing.Timeout)*time.Second)
	deps.Backend = backend

	// Cache (optional). Interfaces are only assigned when the adapter exists.
	var routeCache ports.CacheService
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr, "daytour")
		if err != nil {
			slog.Warn("valkey unavailable, route caching disabled", "error", err)
		} else {
			defer cache.Close()
			routeCache = cache
			deps.Cache = cache
		}
	}

	// NATS (optional)
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, trip events disabled", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			deps.NATS = pub.Conn()
		}
	}

	deps.Trips = usecases.NewTripService(backend, routeCache, publisher, cfg.Valkey.RouteTTL)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Day Tour Planner API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "routing_backend", cfg.Routing.BaseURL)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/metrics"
)

// Subject prefixes for trip events. The city key is appended.
const (
	SubjectPlanned      = "trips.planned"
	SubjectRecalculated = "trips.recalculated"
	SubjectRejected     = "locations.rejected"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "TRIPS",
			Subjects:  []string{"trips.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "LOCATION_REJECTIONS",
			Subjects:  []string{"locations.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishRoutePlanned(ctx context.Context, event *domain.TripEvent) error {
	return p.publish(ctx, Subject(SubjectPlanned, event.City), event)
}

func (p *Publisher) PublishRouteRecalculated(ctx context.Context, event *domain.TripEvent) error {
	return p.publish(ctx, Subject(SubjectRecalculated, event.City), event)
}

func (p *Publisher) PublishLocationRejected(ctx context.Context, event *domain.TripEvent) error {
	return p.publish(ctx, Subject(SubjectRejected, event.City), event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event *domain.TripEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EventsPublished.WithLabelValues(subject, status).Inc()
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for WebSocket relays and readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Subject builds "<prefix>.<city>", or "<prefix>.>" when city is empty.
func Subject(prefix string, city domain.CityKey) string {
	if city == "" {
		return prefix + ".>"
	}
	return prefix + "." + string(city)
}

// RawConn creates a plain NATS connection.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("daytour-planner"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

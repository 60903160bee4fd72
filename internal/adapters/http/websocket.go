package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/daytour/planner/internal/adapters/nats"
	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/logging"
	"github.com/daytour/planner/internal/pkg/metrics"
)

// wsMessage is sent from client to validate a location or to follow a trip feed.
type wsMessage struct {
	Action      string    `json:"action"`      // "validate" | "subscribe" | "unsubscribe"
	City        string    `json:"city"`        // city key; "" subscribes to every city
	Coordinates []float64 `json:"coordinates"` // [lat, lng] for "validate"
	Channel     string    `json:"channel"`     // "planned" | "recalculated" | "rejected"
}

// wsVerdict is the reply to a "validate" message.
type wsVerdict struct {
	Type    string `json:"type"`
	City    string `json:"city"`
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

var channelSubjects = map[string]string{
	"planned":      natsadapter.SubjectPlanned,
	"recalculated": natsadapter.SubjectRecalculated,
	"rejected":     natsadapter.SubjectRejected,
}

// WebSocketHandler returns a handler for live location checks while the user
// drags a map pin, and relays trip events from NATS when the broker is available.
// Clients send JSON: {"action":"validate","city":"seoul","coordinates":[37.56,126.97]}
// or {"action":"subscribe","channel":"planned","city":"seoul"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		logger := slog.Default().With("remote_addr", remoteAddr)
		ctx := logging.WithLogger(context.Background(), logger)
		logger.Debug("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "validate":
				r := deps.Locations.Validate(ctx, m.Coordinates, m.City)
				_ = writeJSON(wsVerdict{Type: "validation", City: m.City, IsValid: r.IsValid(), Message: r.Message()})

			case "subscribe", "unsubscribe":
				if deps.NATS == nil {
					_ = writeJSON(map[string]string{"error": "event feed unavailable"})
					continue
				}
				prefix, ok := channelSubjects[m.Channel]
				if !ok {
					_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
					continue
				}
				var city domain.CityKey
				if m.City != "" {
					loc, err := deps.Locations.City(m.City)
					if err != nil {
						_ = writeJSON(map[string]string{"error": "unknown city: " + m.City})
						continue
					}
					city = loc.Key
				}
				subject := natsadapter.Subject(prefix, city)

				if m.Action == "subscribe" {
					if _, exists := subs[subject]; exists {
						_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
						continue
					}
					s, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
						_ = writeJSON(json.RawMessage(msg.Data))
					})
					if err != nil {
						_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
						continue
					}
					subs[subject] = s
					_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})
					continue
				}

				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Debug("ws client disconnected")
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransportMode is how the tour is travelled between stops.
type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeTransit TransportMode = "transit"
	ModeWalking TransportMode = "walking"
)

// ParseTransportMode lower-cases s and checks it against the known modes.
func ParseTransportMode(s string) (TransportMode, error) {
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDriving, ModeTransit, ModeWalking:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// RouteRequest asks the routing backend for an ordered tour from a start location.
type RouteRequest struct {
	City              string    `json:"city"`
	StartLocationName string    `json:"start_location_name"`
	StartLocation     []float64 `json:"start_location_coords"`
	EndLocationName   string    `json:"end_location_name,omitempty"`
	EndLocation       []float64 `json:"end_location_coords,omitempty"`
	Destinations      []string  `json:"destinations,omitempty"`
	TransportMode     string    `json:"transport_mode,omitempty"`
}

// RecalculateRequest asks for the remaining tour after some stops were visited.
type RecalculateRequest struct {
	City                  string    `json:"city"`
	CurrentLocationName   string    `json:"current_location_name"`
	CurrentLocation       []float64 `json:"current_location_coords"`
	VisitedLocations      []string  `json:"visited_locations,omitempty"`
	RemainingDestinations []string  `json:"remaining_destinations,omitempty"`
	TransportMode         string    `json:"transport_mode,omitempty"`
}

// NamedLocation is a labelled [lat, lng] pair as echoed by the backend.
type NamedLocation struct {
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"`
}

// RouteResult is the routing backend's answer.
type RouteResult struct {
	Route           []string       `json:"route"`
	TotalTime       float64        `json:"total_time"` // seconds
	Directions      string         `json:"directions"`
	TransportMode   string         `json:"transport_mode"`
	StartLocation   *NamedLocation `json:"start_location,omitempty"`
	CurrentLocation *NamedLocation `json:"current_location,omitempty"`
}

// RoutePlan is a RouteResult annotated by this service.
type RoutePlan struct {
	ID        string        `json:"id"`
	City      CityKey       `json:"city"`
	Mode      TransportMode `json:"mode"`
	Cached    bool          `json:"cached"`
	CreatedAt time.Time     `json:"created_at"`
	Result    RouteResult   `json:"result"`
}

// TripEvent is published to the broker when a plan is produced or a location is rejected.
type TripEvent struct {
	PlanID    string        `json:"plan_id,omitempty"`
	City      CityKey       `json:"city"`
	Mode      TransportMode `json:"mode,omitempty"`
	Stops     int           `json:"stops,omitempty"`
	TotalTime float64       `json:"total_time,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	At        time.Time     `json:"at"`
}

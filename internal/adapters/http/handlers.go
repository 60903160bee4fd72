package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/core/validation"
	"github.com/daytour/planner/internal/pkg/geospatial"
)

// CityView is the public representation of a supported city. RadiusEnvelope
// is the lat/lng box around the admissible circle, for map fitBounds.
type CityView struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	Bounds         domain.Bounds   `json:"bounds"`
	Center         domain.GeoPoint `json:"center"`
	MaxRadiusKm    float64         `json:"max_radius_km"`
	TransportModes []string        `json:"transport_modes"`
	RangeMessage   string          `json:"range_message"`
	RadiusEnvelope domain.Bounds   `json:"radius_envelope"`
}

func newCityView(c domain.City) CityView {
	modes := make([]string, len(c.TransportModes))
	for i, m := range c.TransportModes {
		modes[i] = string(m)
	}
	return CityView{
		Key:            string(c.Key),
		Name:           c.Name,
		Bounds:         c.Bounds,
		Center:         c.Center,
		MaxRadiusKm:    c.MaxRadiusKm,
		TransportModes: modes,
		RangeMessage:   validation.LocationRangeMessage(string(c.Key)),
		RadiusEnvelope: geospatial.BoundingBox(c.Center.Lat, c.Center.Lng, c.MaxRadiusKm),
	}
}

// ValidateLocationRequest is the body of POST /v1/locations/validate.
// Coordinates is kept raw so that a malformed pair yields a verdict rather than a 400.
type ValidateLocationRequest struct {
	Coordinates json.RawMessage `json:"coordinates"`
	City        string          `json:"city"`
}

// decodeCoordinates returns nil for anything that is not a JSON array of numbers.
func decodeCoordinates(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}
	var coords []float64
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil
	}
	return coords
}

// ListCitiesHandler returns every supported city.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all := deps.Locations.Cities()
		views := make([]CityView, 0, len(all))
		for _, city := range all {
			views = append(views, newCityView(city))
		}
		return c.JSON(views)
	}
}

// GetCityHandler returns a single city by key.
func GetCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city, err := deps.Locations.City(c.Params("city"))
		if err != nil {
			return errNotFound(c, "city not found")
		}
		return c.JSON(newCityView(city))
	}
}

// RangeMessageHandler returns the guidance sentence shown next to the location picker.
func RangeMessageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("city")
		msg := deps.Locations.RangeMessage(key)
		if msg == validation.MsgInvalidRangeCity {
			return errNotFound(c, msg)
		}
		return c.JSON(fiber.Map{
			"city":    key,
			"message": msg,
		})
	}
}

// ValidateLocationHandler checks a [lat, lng] pair for a city.
// The verdict is always returned with 200; rejection is not an HTTP error.
func ValidateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ValidateLocationRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := deps.Locations.Validate(c.UserContext(), decodeCoordinates(req.Coordinates), req.City)
		return c.JSON(result)
	}
}

// CalculateRouteHandler validates the start location and asks the backend for a tour.
func CalculateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.RouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.City == "" {
			return errBadRequest(c, "city is required")
		}

		plan, err := deps.Trips.PlanRoute(c.UserContext(), req)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(plan)
	}
}

// RecalculateRouteHandler re-plans the rest of a tour from the current location.
func RecalculateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.RecalculateRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.City == "" {
			return errBadRequest(c, "city is required")
		}

		plan, err := deps.Trips.RecalculateRoute(c.UserContext(), req)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(plan)
	}
}

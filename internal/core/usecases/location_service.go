package usecases

import (
	"context"

	"github.com/daytour/planner/internal/core/cities"
	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/core/validation"
	"github.com/daytour/planner/internal/pkg/logging"
	"github.com/daytour/planner/internal/pkg/metrics"
)

// LocationService exposes city configuration and location checks to transports.
type LocationService struct{}

// NewLocationService creates a new LocationService.
func NewLocationService() *LocationService {
	return &LocationService{}
}

// Validate checks a [lat, lng] pair for a city and records the outcome.
func (s *LocationService) Validate(ctx context.Context, coordinates []float64, city string) domain.ValidationResult {
	result, outcome := validation.Evaluate(coordinates, city)
	metrics.LocationValidations.WithLabelValues(cityLabel(city), string(outcome)).Inc()

	if !result.IsValid() {
		logging.FromContext(ctx).Debug("location rejected",
			"city", city,
			"outcome", outcome,
			"reason", result.Message(),
		)
	}
	return result
}

// RangeMessage returns the guidance sentence for a city.
func (s *LocationService) RangeMessage(city string) string {
	return validation.LocationRangeMessage(city)
}

// Cities lists every supported city.
func (s *LocationService) Cities() []domain.City {
	return cities.All()
}

// City returns one city by key.
func (s *LocationService) City(key string) (domain.City, error) {
	c, ok := cities.Lookup(key)
	if !ok {
		return domain.City{}, domain.ErrUnknownCity
	}
	return c, nil
}

// cityLabel bounds metric cardinality to the supported keys.
func cityLabel(city string) string {
	if c, ok := cities.Lookup(city); ok {
		return string(c.Key)
	}
	return "unknown"
}

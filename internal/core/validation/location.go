// Package validation decides whether a starting location is admissible for a city's day tour.
//
// Checks run in a fixed order and short-circuit: coordinate shape, city
// resolution, bounding box, then distance from the city center.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/daytour/planner/internal/core/cities"
	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/geospatial"
)

const (
	MsgInvalidFormat       = "Invalid coordinates format"
	MsgInvalidCity         = "Invalid city specified for validation"
	MsgInvalidRangeCity    = "Invalid city specified for range message."
	msgOutsideBoundsFormat = "Location must be within the boundaries of %s"
	msgTooFarFormat        = "Location is too far from %s for a day tour (maximum %s km)"
	msgRangeFormat         = "Please select a location within the boundaries of %s, no more than %s km from the city center."
)

// Outcome names the check that decided a verdict.
type Outcome string

const (
	OutcomeValid       Outcome = "valid"
	OutcomeBadFormat   Outcome = "bad_format"
	OutcomeUnknownCity Outcome = "unknown_city"
	OutcomeOutOfBounds Outcome = "out_of_bounds"
	OutcomeTooFar      Outcome = "too_far"
)

// IsLocationValid checks a [latitude, longitude] pair against the named city.
func IsLocationValid(coordinates []float64, city string) domain.ValidationResult {
	r, _ := Evaluate(coordinates, city)
	return r
}

// Evaluate is IsLocationValid that also reports which check decided the verdict.
func Evaluate(coordinates []float64, city string) (domain.ValidationResult, Outcome) {
	if len(coordinates) != 2 || !finite(coordinates[0]) || !finite(coordinates[1]) {
		return domain.Invalid(MsgInvalidFormat), OutcomeBadFormat
	}

	c, ok := cities.Lookup(city)
	if !ok {
		return domain.Invalid(MsgInvalidCity), OutcomeUnknownCity
	}

	p := domain.GeoPoint{Lat: coordinates[0], Lng: coordinates[1]}
	name := displayName(city)

	if !c.Bounds.Contains(p) {
		return domain.Invalid(fmt.Sprintf(msgOutsideBoundsFormat, name)), OutcomeOutOfBounds
	}

	if geospatial.Distance(p, c.Center) > c.MaxRadiusKm {
		return domain.Invalid(fmt.Sprintf(msgTooFarFormat, name, formatKm(c.MaxRadiusKm))), OutcomeTooFar
	}

	return domain.Valid(), OutcomeValid
}

// IsPointValid is IsLocationValid for a GeoPoint.
func IsPointValid(p domain.GeoPoint, city string) domain.ValidationResult {
	return IsLocationValid(p.Pair(), city)
}

// LocationRangeMessage describes the admissible area for a city before the user picks a location.
func LocationRangeMessage(city string) string {
	c, ok := cities.Lookup(city)
	if !ok {
		return MsgInvalidRangeCity
	}
	return fmt.Sprintf(msgRangeFormat, displayName(city), formatKm(c.MaxRadiusKm))
}

// displayName lower-cases the caller's key and swaps underscores for spaces.
func displayName(city string) string {
	return domain.CityKey(strings.ToLower(city)).DisplayName()
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

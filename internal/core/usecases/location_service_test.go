package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/core/usecases"
)

func TestLocationService_Validate(t *testing.T) {
	svc := usecases.NewLocationService()

	r := svc.Validate(context.Background(), []float64{37.7749, -122.4194}, "san_francisco")
	if !r.IsValid() {
		t.Fatalf("expected valid, got %q", r.Message())
	}
	if r.Message() != domain.MessageValid {
		t.Errorf("expected %q, got %q", domain.MessageValid, r.Message())
	}

	r = svc.Validate(context.Background(), []float64{37.7749, -122.4194}, "atlantis")
	if r.IsValid() {
		t.Fatal("expected invalid for unknown city")
	}
}

func TestLocationService_City(t *testing.T) {
	svc := usecases.NewLocationService()

	c, err := svc.City("SEOUL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key != domain.Seoul {
		t.Errorf("expected seoul, got %s", c.Key)
	}

	if _, err := svc.City("tokyo"); !errors.Is(err, domain.ErrUnknownCity) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}
}

func TestLocationService_CitiesAndRange(t *testing.T) {
	svc := usecases.NewLocationService()

	if n := len(svc.Cities()); n != 2 {
		t.Errorf("expected 2 cities, got %d", n)
	}
	want := "Please select a location within the boundaries of seoul, no more than 320 km from the city center."
	if got := svc.RangeMessage("seoul"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

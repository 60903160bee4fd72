package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/daytour/planner/internal/core/domain"
)

// --- Mock RoutePlanner ---

type mockPlanner struct {
	calculateFn   func(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error)
	recalculateFn func(ctx context.Context, req domain.RecalculateRequest) (*domain.RouteResult, error)
	calls         int
}

func (m *mockPlanner) CalculateRoute(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	m.calls++
	if m.calculateFn != nil {
		return m.calculateFn(ctx, req)
	}
	return &domain.RouteResult{Route: []string{req.StartLocationName}, TransportMode: req.TransportMode}, nil
}

func (m *mockPlanner) RecalculateRoute(ctx context.Context, req domain.RecalculateRequest) (*domain.RouteResult, error) {
	m.calls++
	if m.recalculateFn != nil {
		return m.recalculateFn(ctx, req)
	}
	return &domain.RouteResult{Route: req.RemainingDestinations, TransportMode: req.TransportMode}, nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	planned      []*domain.TripEvent
	recalculated []*domain.TripEvent
	rejected     []*domain.TripEvent
	err          error
}

func (m *mockPublisher) PublishRoutePlanned(_ context.Context, e *domain.TripEvent) error {
	m.planned = append(m.planned, e)
	return m.err
}

func (m *mockPublisher) PublishRouteRecalculated(_ context.Context, e *domain.TripEvent) error {
	m.recalculated = append(m.recalculated, e)
	return m.err
}

func (m *mockPublisher) PublishLocationRejected(_ context.Context, e *domain.TripEvent) error {
	m.rejected = append(m.rejected, e)
	return m.err
}

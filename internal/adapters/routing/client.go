// Package routing talks to the route-optimisation backend that orders the
// tour stops and produces directions.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/daytour/planner/internal/core/domain"
	"github.com/daytour/planner/internal/pkg/metrics"
	"github.com/daytour/planner/internal/pkg/telemetry"
)

const (
	endpointCalculate   = "/calculate-route"
	endpointRecalculate = "/recalculate-route"
)

// Client implements ports.RoutePlanner over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// New creates a backend client. A trailing slash on baseURL is ignored.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "daytour-planner",
			ReadTimeout:         timeout,
			WriteTimeout:        10 * time.Second,
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
		},
	}
}

// CalculateRoute asks the backend for an optimised tour.
func (c *Client) CalculateRoute(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	var out domain.RouteResult
	if err := c.post(ctx, endpointCalculate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecalculateRoute asks the backend to re-plan the rest of a tour.
func (c *Client) RecalculateRoute(ctx context.Context, req domain.RecalculateRequest) (*domain.RouteResult, error) {
	var out domain.RouteResult
	if err := c.post(ctx, endpointRecalculate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/")
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx, 2*time.Second)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.StatusCode() >= fasthttp.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode())
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanBackendCall)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrEndpoint, endpoint))

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBody(payload)

	start := time.Now()
	err = c.http.DoDeadline(req, resp, c.deadline(ctx, c.timeout))
	metrics.BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := "transport"
		if errors.Is(err, fasthttp.ErrTimeout) {
			kind = "timeout"
		}
		metrics.BackendErrors.WithLabelValues(endpoint, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		return &domain.BackendError{Message: err.Error(), Err: domain.ErrBackendUnavailable}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		berr := &domain.BackendError{Status: status, Message: errorMessage(resp.Body(), status)}
		if status >= 500 {
			berr.Err = domain.ErrBackendUnavailable
			metrics.BackendErrors.WithLabelValues(endpoint, "5xx").Inc()
		} else {
			berr.Err = domain.ErrBackendRejected
			metrics.BackendErrors.WithLabelValues(endpoint, "4xx").Inc()
		}
		span.SetStatus(codes.Error, berr.Message)
		return berr
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		metrics.BackendErrors.WithLabelValues(endpoint, "decode").Inc()
		return &domain.BackendError{Status: status, Message: "malformed response: " + err.Error(), Err: domain.ErrBackendUnavailable}
	}
	return nil
}

// deadline picks the earlier of the context deadline and now+d.
func (c *Client) deadline(ctx context.Context, d time.Duration) time.Time {
	dl := time.Now().Add(d)
	if ctxDL, ok := ctx.Deadline(); ok && ctxDL.Before(dl) {
		return ctxDL
	}
	return dl
}

// errorMessage extracts {"error": "..."} from a backend error body.
func errorMessage(body []byte, status int) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("backend returned status %d", status)
}

// Package provider is the typed HTTP client for the external vehicle-data
// provider. It knows the provider's endpoints and wire shapes and nothing
// about caching, deduplication or circuit breaking; those wrap it from the
// outside.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"forecourt/internal/platform/metrics"
)

const (
	endpointAuthenticate = "authenticate"
	endpointVehicles     = "vehicles"
	endpointTrended      = "valuations_trended"
	endpointMetrics      = "vehicle_metrics"
	endpointCompetitors  = "competitors"
)

// Client calls the vehicle-data provider. All methods are read-only lookups
// except Authenticate, which exchanges credentials for a bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		// No client-level timeout: per-call deadlines come from the circuit
		// breaker's context so a slow call is cancelled, not just abandoned.
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authRequest struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the configured key/secret for a bearer token.
func (c *Client) Authenticate(ctx context.Context, key, secret string) (string, error) {
	var out authResponse
	err := c.do(ctx, endpointAuthenticate, http.MethodPost, c.baseURL+"/authenticate", "",
		authRequest{Key: key, Secret: secret}, &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", NewUpstreamError(ErrorBadData, endpointAuthenticate, "empty access token", nil)
	}
	return out.AccessToken, nil
}

// Vehicle performs the base vehicle+valuation lookup.
func (c *Client) Vehicle(ctx context.Context, token string, q VehicleQuery) (*VehicleResponse, error) {
	params := url.Values{}
	params.Set("registration", q.Registration)
	params.Set("odometerReadingMiles", strconv.Itoa(q.OdometerReadingMiles))
	params.Set("features", "true")
	params.Set("valuations", "true")
	params.Set("history", "true")
	params.Set("competitors", "true")
	if q.IncludeCheck {
		params.Set("check", "true")
		params.Set("fullVehicleCheck", strconv.FormatBool(q.FullVehicleCheck))
	}

	var out VehicleResponse
	err := c.do(ctx, endpointVehicles, http.MethodGet, c.baseURL+"/vehicles?"+params.Encode(), token, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendedValuations fetches the valuation time series for a derivative.
// 404 and 400 responses surface as categorized errors; callers decide
// whether those are benign.
func (c *Client) TrendedValuations(ctx context.Context, token string, q TrendedQuery) (*TrendedValuationsResponse, error) {
	params := url.Values{}
	params.Set("derivativeId", q.DerivativeID)
	params.Set("firstRegistrationDate", q.FirstRegistrationDate)
	params.Set("odometerReadingMiles", strconv.Itoa(q.OdometerReadingMiles))

	var out TrendedValuationsResponse
	err := c.do(ctx, endpointTrended, http.MethodGet, c.baseURL+"/valuations/trended?"+params.Encode(), token, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VehicleMetrics fetches location-adjusted market metrics for an advertiser.
func (c *Client) VehicleMetrics(ctx context.Context, token, advertiserID string, vehicle MetricsVehicle) (*MetricsResponse, error) {
	params := url.Values{}
	params.Set("advertiserId", advertiserID)

	body := struct {
		Vehicle MetricsVehicle `json:"vehicle"`
	}{Vehicle: vehicle}

	var out MetricsResponse
	err := c.do(ctx, endpointMetrics, http.MethodPost, c.baseURL+"/vehicle-metrics?"+params.Encode(), token, body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Competitors follows a competitor link returned by the base lookup. The
// href is provider-supplied and may be absolute or relative to the base URL.
func (c *Client) Competitors(ctx context.Context, token, href string) (*CompetitorsResponse, error) {
	target := href
	u, err := url.Parse(href)
	if err != nil {
		return nil, NewUpstreamError(ErrorBadData, endpointCompetitors, "invalid competitors link", err)
	}
	if !u.IsAbs() {
		target = c.baseURL + href
	}

	var out CompetitorsResponse
	if err := c.do(ctx, endpointCompetitors, http.MethodGet, target, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, target, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewUpstreamError(ErrorInternal, endpoint, "encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return NewUpstreamError(ErrorInternal, endpoint, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveProviderCall(endpoint, time.Since(start))
	if err != nil {
		c.metrics.IncProviderCallError(endpoint)
		if errors.Is(err, context.DeadlineExceeded) {
			return NewUpstreamError(ErrorTimeout, endpoint, "request timed out", err)
		}
		return NewUpstreamError(ErrorOutage, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncProviderCallError(endpoint)
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if c.logger != nil {
			c.logger.DebugContext(ctx, "provider returned non-2xx",
				"endpoint", endpoint,
				"status", resp.StatusCode,
			)
		}
		return errorFromStatus(endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncProviderCallError(endpoint)
		return NewUpstreamError(ErrorBadData, endpoint, "decode response", err)
	}
	return nil
}

// String renders the client target for logs.
func (c *Client) String() string {
	return fmt.Sprintf("vehicle-data provider at %s", c.baseURL)
}

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

// BackendClient consumes the aggregating backend's envelope endpoints.
type BackendClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBackendClient creates a client for the primary aggregating backend.
func NewBackendClient(client *http.Client, baseURL string, logger *zap.Logger) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry: RetryConfig{
				MaxRetries: 2,
				Min:        500 * time.Millisecond,
				Max:        5 * time.Second,
			},
		},
		circuit: newCircuit("backend"),
		logger:  logger,
	}
}

// envelope is the backend's uniform response shape. success=false is an
// UpstreamRejected failure carrying the message as detail.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	CityID    string          `json:"cityId"`
	City      string          `json:"city"`
	Lat       float64         `json:"lat"`
	Lng       float64         `json:"lng"`
	Timestamp string          `json:"timestamp"`
}

func (c *BackendClient) getEnvelope(ctx context.Context, path string, q url.Values) (*envelope, *weather.Failure) {
	buildRequest := func() (*http.Request, error) {
		u := c.baseURL + path
		if len(q) > 0 {
			u += "?" + q.Encode()
		}
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, weather.RejectedFailure(fmt.Errorf("malformed envelope: %w", err))
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "upstream reported failure"
		}
		return nil, weather.RejectedFailure(errors.New(msg))
	}
	return &env, nil
}

// FetchCurrent retrieves current per-source conditions for a city name.
// A success envelope with no source entries is an EmptyResult failure.
func (c *BackendClient) FetchCurrent(ctx context.Context, city string) (*weather.BackendPayload, *weather.Failure) {
	q := url.Values{}
	q.Set("city", city)

	env, fail := c.getEnvelope(ctx, "/data/current", q)
	if fail != nil {
		return nil, fail
	}

	var entries []weather.BackendSourceEntry
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			return nil, weather.RejectedFailure(fmt.Errorf("malformed current payload: %w", err))
		}
	}
	if len(entries) == 0 {
		return nil, weather.EmptyFailure("current conditions carried no source entries")
	}

	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}

	return &weather.BackendPayload{
		CityID:    env.CityID,
		City:      env.City,
		Lat:       env.Lat,
		Lng:       env.Lng,
		Timestamp: ts.UTC(),
		Sources:   entries,
	}, nil
}

type historicalEntry struct {
	weather.BackendSourceEntry
	Timestamp string `json:"timestamp"`
}

// FetchHistorical retrieves one bounded historical window. Callers absorb
// failures at slice granularity.
func (c *BackendClient) FetchHistorical(ctx context.Context, cityID string, start, end time.Time) ([]weather.HistoricalRecord, *weather.Failure) {
	q := url.Values{}
	q.Set("startDate", start.UTC().Format("2006-01-02"))
	q.Set("endDate", end.UTC().Format("2006-01-02"))

	env, fail := c.getEnvelope(ctx, "/data/historical/"+url.PathEscape(cityID), q)
	if fail != nil {
		return nil, fail
	}

	var entries []historicalEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return nil, weather.RejectedFailure(fmt.Errorf("malformed historical payload: %w", err))
	}

	recs := make([]weather.HistoricalRecord, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			continue
		}
		metrics := make(map[weather.MetricID]float64)
		for _, m := range weather.AllMetrics {
			if v := e.MetricValue(m); v != nil {
				metrics[m] = *v
			}
		}
		recs = append(recs, weather.HistoricalRecord{
			SourceID:  e.SourceID,
			Timestamp: ts.UTC(),
			Metrics:   metrics,
		})
	}
	return recs, nil
}

type forecastEntry struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
}

// FetchForecast retrieves the backend's hourly prediction series.
func (c *BackendClient) FetchForecast(ctx context.Context, cityID string) ([]weather.ForecastRecord, *weather.Failure) {
	env, fail := c.getEnvelope(ctx, "/data/forecast/"+url.PathEscape(cityID), nil)
	if fail != nil {
		return nil, fail
	}

	var entries []forecastEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return nil, weather.RejectedFailure(fmt.Errorf("malformed forecast payload: %w", err))
	}

	recs := make([]weather.ForecastRecord, 0, len(entries))
	for _, e := range entries {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			continue
		}
		recs = append(recs, weather.ForecastRecord{Timestamp: ts.UTC(), Temperature: e.Temperature})
	}
	return recs, nil
}

// SearchCities returns search suggestions from the backend. It never errors;
// any upstream problem yields an empty list.
func (c *BackendClient) SearchCities(ctx context.Context, query string) []weather.Suggestion {
	q := url.Values{}
	q.Set("q", query)

	env, fail := c.getEnvelope(ctx, "/data/search", q)
	if fail != nil {
		c.logger.Debug("city search failed", zap.String("query", query), zap.Error(fail))
		return []weather.Suggestion{}
	}

	var out []weather.Suggestion
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return []weather.Suggestion{}
	}
	return out
}

// ListCities retrieves the backend's tracked-city catalogue.
func (c *BackendClient) ListCities(ctx context.Context) ([]weather.City, *weather.Failure) {
	env, fail := c.getEnvelope(ctx, "/data/cities", nil)
	if fail != nil {
		return nil, fail
	}

	var out []weather.City
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, weather.RejectedFailure(fmt.Errorf("malformed cities payload: %w", err))
	}
	return out, nil
}

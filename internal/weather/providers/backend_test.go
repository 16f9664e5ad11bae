package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.Client(), srv.URL, zap.NewNop())
}

func TestFetchCurrentSuccessFalseIsRejected(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"city not supported"}`))
	})

	_, fail := c.FetchCurrent(context.Background(), "Atlantis")
	require.NotNil(t, fail)
	require.Equal(t, weather.FailureRejected, fail.Kind)
	require.Contains(t, fail.Error(), "city not supported")
}

func TestFetchCurrentEmptyDataIsEmptyFailure(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[],"cityId":"blr","city":"Bengaluru"}`))
	})

	_, fail := c.FetchCurrent(context.Background(), "Bengaluru")
	require.NotNil(t, fail)
	require.Equal(t, weather.FailureEmpty, fail.Kind)
}

func TestFetchCurrentDecodesEntries(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/current", r.URL.Path)
		require.Equal(t, "Bengaluru", r.URL.Query().Get("city"))
		w.Write([]byte(`{
			"success": true,
			"cityId": "blr",
			"city": "Bengaluru",
			"lat": 12.9716,
			"lng": 77.5946,
			"timestamp": "2026-08-31T14:00:00Z",
			"data": [
				{"sourceId":"imd","temperature":26.8,"humidity":64,"status":"active"},
				{"sourceId":"openweather","temperature":27.5,"status":"active"}
			]
		}`))
	})

	p, fail := c.FetchCurrent(context.Background(), "Bengaluru")
	require.Nil(t, fail)
	require.Equal(t, "blr", p.CityID)
	require.Len(t, p.Sources, 2)
	require.Equal(t, 26.8, *p.Sources[0].Temperature)
	require.Nil(t, p.Sources[1].Humidity)
	require.Equal(t, time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC), p.Timestamp)
}

func TestFetchCurrentNon2xxIsRejected(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, fail := c.FetchCurrent(context.Background(), "Bengaluru")
	require.NotNil(t, fail)
	require.Equal(t, weather.FailureRejected, fail.Kind)
}

func TestSearchCitiesNeverErrors(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := c.SearchCities(context.Background(), "Beng")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFetchHistoricalDecodesMetrics(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/historical/blr", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("startDate"))
		require.NotEmpty(t, r.URL.Query().Get("endDate"))
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"sourceId":"imd","timestamp":"2026-08-31T10:00:00Z","temperature":26.1,"humidity":70},
				{"sourceId":"imd","timestamp":"2026-08-31T11:00:00Z","temperature":26.5}
			]
		}`))
	})

	recs, fail := c.FetchHistorical(context.Background(), "blr", time.Now().Add(-24*time.Hour), time.Now())
	require.Nil(t, fail)
	require.Len(t, recs, 2)
	require.Equal(t, 26.1, recs[0].Metrics[weather.MetricTemperature])
	require.Equal(t, 70.0, recs[0].Metrics[weather.MetricHumidity])

	_, hasPressure := recs[1].Metrics[weather.MetricPressure]
	require.False(t, hasPressure)
}

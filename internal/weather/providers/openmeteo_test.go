package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFallback(t *testing.T, handler http.HandlerFunc) *FallbackClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFallbackClient(srv.Client(), srv.URL, srv.URL, srv.URL, zap.NewNop())
}

func TestGeocodePrefersTargetCountry(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"id":1,"name":"Bangalore","latitude":33.5,"longitude":-86.8,"country_code":"US","admin1":"Alabama"},
			{"id":2,"name":"Bengaluru","latitude":12.9716,"longitude":77.5946,"country_code":"IN","admin1":"Karnataka"}
		]}`))
	})

	got := c.Geocode(context.Background(), "Bangalore")
	require.True(t, got.Located)
	require.Equal(t, "Bengaluru", got.Name)
	require.Equal(t, "Karnataka", got.Region)
}

func TestGeocodeTakesFirstWithoutCountryMatch(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"id":1,"name":"Paris","latitude":48.85,"longitude":2.35,"country_code":"FR","admin1":"Ile-de-France"},
			{"id":2,"name":"Paris","latitude":33.66,"longitude":-95.55,"country_code":"US","admin1":"Texas"}
		]}`))
	})

	got := c.Geocode(context.Background(), "Paris")
	require.True(t, got.Located)
	require.Equal(t, "FR", got.Country)
}

func TestGeocodeFailureDegradesToDefaultLocation(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got := c.Geocode(context.Background(), "nowhere")
	require.False(t, got.Located)
	require.Equal(t, "Bengaluru", got.Name)
	require.Equal(t, 12.9716, got.Lat)
}

func TestFetchWeatherToleratesMissingBlocks(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"temperature_2m": 27.4, "relative_humidity_2m": 61},
			"hourly": {"time": ["2026-08-31T13:00","2026-08-31T14:00"], "temperature_2m": [27.0, 27.4]}
		}`))
	})

	got, fail := c.FetchWeather(context.Background(), 12.9716, 77.5946)
	require.Nil(t, fail)
	require.Equal(t, 27.4, *got.Current.Temperature)
	// Keys the upstream omitted stay nil/empty.
	require.Nil(t, got.Current.Pressure)
	require.Empty(t, got.Hourly.UVIndex)
	require.Len(t, got.Hourly.Time, 2)
}

func TestFetchAirQualityDecodesCurrent(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"us_aqi": 92, "pm2_5": 34.1, "pm10": 58.2, "nitrogen_dioxide": 21.5},
			"hourly": {"time": ["2026-08-31T13:00"], "us_aqi": [90]}
		}`))
	})

	got, fail := c.FetchAirQuality(context.Background(), 12.9716, 77.5946)
	require.Nil(t, fail)
	require.Equal(t, 92.0, *got.Current.AQI)
	require.Equal(t, 34.1, *got.Current.PM25)
	require.Len(t, got.HourlyAQI, 1)
}

func TestSearchSuggestionsEmptyOnUpstreamProblem(t *testing.T) {
	c := newTestFallback(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	got := c.SearchSuggestions(context.Background(), "Beng")
	require.NotNil(t, got)
	require.Empty(t, got)
}

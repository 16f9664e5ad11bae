package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	current     *BackendPayload
	currentFail *Failure
	calls       int
}

func (b *fakeBackend) FetchCurrent(_ context.Context, _ string) (*BackendPayload, *Failure) {
	b.calls++
	return b.current, b.currentFail
}

func (b *fakeBackend) FetchHistorical(_ context.Context, _ string, _, _ time.Time) ([]HistoricalRecord, *Failure) {
	return nil, nil
}

func (b *fakeBackend) FetchForecast(_ context.Context, _ string) ([]ForecastRecord, *Failure) {
	return []ForecastRecord{{Timestamp: time.Now(), Temperature: 26}}, nil
}

func (b *fakeBackend) SearchCities(_ context.Context, _ string) []Suggestion {
	return []Suggestion{}
}

func (b *fakeBackend) ListCities(_ context.Context) ([]City, *Failure) {
	return []City{}, nil
}

type fakeFallback struct {
	geo     GeoResult
	weather *FallbackWeather
	air     *FallbackAir
	wFail   *Failure
	aFail   *Failure
	calls   int
}

func (f *fakeFallback) Geocode(_ context.Context, _ string) GeoResult {
	return f.geo
}

func (f *fakeFallback) FetchWeather(_ context.Context, _, _ float64) (*FallbackWeather, *Failure) {
	f.calls++
	return f.weather, f.wFail
}

func (f *fakeFallback) FetchAirQuality(_ context.Context, _, _ float64) (*FallbackAir, *Failure) {
	return f.air, f.aFail
}

func (f *fakeFallback) SearchSuggestions(_ context.Context, _ string) []Suggestion {
	return []Suggestion{{ID: "om-1", Name: "Bengaluru"}}
}

func newFakeFallback() *fakeFallback {
	return &fakeFallback{
		geo: GeoResult{Name: "Bengaluru", Region: "Karnataka", Country: "IN", Lat: 12.9716, Lng: 77.5946, Located: true},
		weather: &FallbackWeather{
			Current: FallbackCurrent{Temperature: f(27.4), Humidity: f(61)},
		},
		air: &FallbackAir{Current: FallbackAirCurrent{AQI: f(92)}},
	}
}

func newService(b BackendAPI, fb FallbackAPI) *Service {
	return NewService(Options{UseBackend: true, FallbackEnabled: true}, b, fb, zap.NewNop())
}

func TestFetchSnapshotRejectedPrimaryDegradesToFallback(t *testing.T) {
	backend := &fakeBackend{currentFail: RejectedFailure(errors.New("city not found"))}
	fallback := newFakeFallback()

	snap, err := newService(backend, fallback).FetchSnapshot(context.Background(), "Bengaluru")

	require.NoError(t, err)
	require.Equal(t, 1, backend.calls)
	require.Equal(t, 1, fallback.calls)
	require.Equal(t, OriginFallback, snap.DataOrigin)
	require.Len(t, snap.AQIBreakdown, 1)
	require.Equal(t, "Bengaluru", snap.CityName)
}

func TestFetchSnapshotEmptyPrimaryDegradesToFallback(t *testing.T) {
	backend := &fakeBackend{current: &BackendPayload{City: "Bengaluru"}}
	fallback := newFakeFallback()

	snap, err := newService(backend, fallback).FetchSnapshot(context.Background(), "Bengaluru")

	require.NoError(t, err)
	require.Equal(t, OriginFallback, snap.DataOrigin)
}

func TestFetchSnapshotBackendAssembly(t *testing.T) {
	backend := &fakeBackend{
		current: &BackendPayload{
			CityID:    "blr",
			City:      "Bengaluru",
			Lat:       12.9716,
			Lng:       77.5946,
			Timestamp: time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC),
			Sources: []BackendSourceEntry{
				{SourceID: "imd", Temperature: f(26.8)},
				{SourceID: "openweather", Temperature: f(27.5)},
			},
		},
	}
	fallback := newFakeFallback()

	snap, err := newService(backend, fallback).FetchSnapshot(context.Background(), "Bengaluru")

	require.NoError(t, err)
	require.Equal(t, OriginBackend, snap.DataOrigin)
	require.Equal(t, 0, fallback.calls)

	var tempRow *MetricRow
	for i := range snap.MetricRows {
		if snap.MetricRows[i].MetricID == MetricTemperature {
			tempRow = &snap.MetricRows[i]
		}
		// Nobody reported pressure, so no pressure row may exist.
		require.NotEqual(t, MetricPressure, snap.MetricRows[i].MetricID)
	}
	require.NotNil(t, tempRow)
	require.Len(t, tempRow.Readings, 2)

	require.NotEmpty(t, snap.Forecast)
	require.NotEmpty(t, snap.Insights)
}

func TestFetchSnapshotFallbackDisabledPropagatesFailure(t *testing.T) {
	backend := &fakeBackend{currentFail: NetworkFailure(errors.New("connection refused"))}
	svc := NewService(Options{UseBackend: true, FallbackEnabled: false}, backend, newFakeFallback(), zap.NewNop())

	_, err := svc.FetchSnapshot(context.Background(), "Bengaluru")
	require.Error(t, err)
}

func TestFetchSnapshotPartialFallbackJoin(t *testing.T) {
	fallback := newFakeFallback()
	fallback.air = nil
	fallback.aFail = NetworkFailure(errors.New("timeout"))

	backend := &fakeBackend{currentFail: RejectedFailure(errors.New("down"))}

	snap, err := newService(backend, fallback).FetchSnapshot(context.Background(), "Bengaluru")

	// One side failing must not fail the join.
	require.NoError(t, err)
	require.Len(t, snap.AQIBreakdown, 1)
	require.Equal(t, StatusUnavailable, snap.AQIBreakdown[0].Status)
}

func TestFetchSnapshotBothFallbackSidesFailing(t *testing.T) {
	fallback := newFakeFallback()
	fallback.weather, fallback.air = nil, nil
	fallback.wFail = NetworkFailure(errors.New("timeout"))
	fallback.aFail = NetworkFailure(errors.New("timeout"))

	backend := &fakeBackend{currentFail: RejectedFailure(errors.New("down"))}

	_, err := newService(backend, fallback).FetchSnapshot(context.Background(), "Bengaluru")
	require.Error(t, err)
}

func TestSearchSuggestionsFallsThrough(t *testing.T) {
	svc := newService(&fakeBackend{currentFail: RejectedFailure(errors.New("down"))}, newFakeFallback())

	got := svc.SearchSuggestions(context.Background(), "Beng")
	require.Len(t, got, 1)
	require.Equal(t, "Bengaluru", got[0].Name)
}

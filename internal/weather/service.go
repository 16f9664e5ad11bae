package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Options controls the orchestration path.
type Options struct {
	// UseBackend enables the primary aggregating backend path.
	UseBackend bool
	// FallbackEnabled enables degradation to the public provider when the
	// primary path fails or returns no usable data.
	FallbackEnabled bool
}

// BackendAPI is the primary aggregating backend surface the orchestrator
// drives. All calls are bounded by the provider client's own timeout.
type BackendAPI interface {
	FetchCurrent(ctx context.Context, city string) (*BackendPayload, *Failure)
	FetchHistorical(ctx context.Context, cityID string, start, end time.Time) ([]HistoricalRecord, *Failure)
	FetchForecast(ctx context.Context, cityID string) ([]ForecastRecord, *Failure)
	SearchCities(ctx context.Context, query string) []Suggestion
	ListCities(ctx context.Context) ([]City, *Failure)
}

// FallbackAPI is the degraded public-provider surface.
type FallbackAPI interface {
	Geocode(ctx context.Context, city string) GeoResult
	FetchWeather(ctx context.Context, lat, lng float64) (*FallbackWeather, *Failure)
	FetchAirQuality(ctx context.Context, lat, lng float64) (*FallbackAir, *Failure)
	SearchSuggestions(ctx context.Context, query string) []Suggestion
}

// Service owns snapshot construction: it sequences primary fetch, the
// fallback decision and assembly. All downstream stages are pure; the only
// state here is configuration and the two clients.
type Service struct {
	opts     Options
	backend  BackendAPI
	fallback FallbackAPI
	logger   *zap.Logger
}

// NewService creates the orchestrator.
func NewService(opts Options, backend BackendAPI, fallback FallbackAPI, logger *zap.Logger) *Service {
	return &Service{
		opts:     opts,
		backend:  backend,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchSnapshot runs the pipeline for one city and returns a freshly built,
// immutable snapshot. Primary failure, rejection and empty data all degrade
// to the fallback provider; no retries happen at this layer.
func (s *Service) FetchSnapshot(ctx context.Context, city string) (*Snapshot, error) {
	if s.opts.UseBackend {
		payload, fail := s.backend.FetchCurrent(ctx, city)
		if fail == nil && len(payload.Sources) == 0 {
			fail = EmptyFailure("current conditions carried no source entries")
		}
		if fail == nil {
			return s.assembleBackend(ctx, payload), nil
		}

		s.logger.Warn("primary backend unusable",
			zap.String("city", city),
			zap.String("reason", string(fail.Kind)),
			zap.Error(fail))

		if !s.opts.FallbackEnabled {
			return nil, fail
		}
	}

	return s.assembleFallback(ctx, city)
}

func (s *Service) assembleBackend(ctx context.Context, p *BackendPayload) *Snapshot {
	rows := NormalizeBackend(p)
	history := BuildBackendHistory(ctx, s.backend, p.CityID, p.Timestamp)

	var forecast ForecastSeries
	if preds, fail := s.backend.FetchForecast(ctx, p.CityID); fail == nil {
		forecast = BuildBackendForecast(preds, "")
	} else {
		// Forecast failure degrades to an empty series, like any other slice.
		s.logger.Warn("forecast fetch failed", zap.String("cityId", p.CityID), zap.Error(fail))
		forecast = ForecastSeries{}
	}

	return &Snapshot{
		CityName:     p.City,
		Lat:          p.Lat,
		Lng:          p.Lng,
		ObservedAt:   p.Timestamp,
		MetricRows:   rows,
		AQIBreakdown: AQIBreakdownBackend(p),
		History:      history,
		Forecast:     forecast,
		Insights:     GenerateInsights(rows, len(p.Sources), p.Timestamp),
		DataOrigin:   OriginBackend,
	}
}

func (s *Service) assembleFallback(ctx context.Context, city string) (*Snapshot, error) {
	geo := s.fallback.Geocode(ctx, city)
	if !geo.Located {
		s.logger.Warn("geocoding failed, using default location", zap.String("city", city))
	}

	// The two public-provider calls are independent: one side failing must
	// not fail the other, the normalizer null-fills around the gap.
	var (
		w     *FallbackWeather
		air   *FallbackAir
		wFail *Failure
		aFail *Failure
	)
	var wg conc.WaitGroup
	wg.Go(func() { w, wFail = s.fallback.FetchWeather(ctx, geo.Lat, geo.Lng) })
	wg.Go(func() { air, aFail = s.fallback.FetchAirQuality(ctx, geo.Lat, geo.Lng) })
	wg.Wait()

	if wFail != nil && aFail != nil {
		return nil, fmt.Errorf("fallback provider unavailable for %q: %w", city, wFail)
	}
	if wFail != nil {
		s.logger.Warn("fallback weather call failed", zap.String("city", city), zap.Error(wFail))
	}
	if aFail != nil {
		s.logger.Warn("fallback air quality call failed", zap.String("city", city), zap.Error(aFail))
	}

	now := time.Now().UTC()
	obs := &FallbackObservation{
		CityName: geo.Name,
		Region:   geo.Region,
		Lat:      geo.Lat,
		Lng:      geo.Lng,
		Weather:  w,
		Air:      air,
	}

	rows := NormalizeFallback(obs, now)
	return &Snapshot{
		CityName:     geo.Name,
		Lat:          geo.Lat,
		Lng:          geo.Lng,
		ObservedAt:   now,
		MetricRows:   rows,
		AQIBreakdown: AQIBreakdownFallback(air),
		History:      BuildFallbackHistory(w, air, geo.Region, now),
		Forecast:     BuildFallbackForecast(w, geo.Region, now),
		Insights:     GenerateInsights(rows, totalReadings(rows), now),
		DataOrigin:   OriginFallback,
	}, nil
}

// SearchSuggestions returns city suggestions for a free-text query. It never
// errors: upstream problems yield an empty list.
func (s *Service) SearchSuggestions(ctx context.Context, query string) []Suggestion {
	if s.opts.UseBackend {
		if res := s.backend.SearchCities(ctx, query); len(res) > 0 {
			return res
		}
	}
	if s.opts.FallbackEnabled {
		return s.fallback.SearchSuggestions(ctx, query)
	}
	return []Suggestion{}
}

// ListCities exposes the backend's city catalogue; empty when the backend is
// disabled or unavailable.
func (s *Service) ListCities(ctx context.Context) []City {
	if !s.opts.UseBackend {
		return []City{}
	}
	cities, fail := s.backend.ListCities(ctx)
	if fail != nil {
		s.logger.Warn("city catalogue fetch failed", zap.Error(fail))
		return []City{}
	}
	return cities
}

func totalReadings(rows []MetricRow) int {
	var n int
	for _, row := range rows {
		n += len(row.Readings)
	}
	return n
}

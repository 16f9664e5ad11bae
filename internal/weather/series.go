package weather

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// historyParallelism bounds in-flight historical slice fetches so the 42
// (metric, resolution) requests do not overwhelm the upstream.
const historyParallelism = 8

// fallbackNowIndex is the safe hourly index used when the current hour
// cannot be matched against the fallback provider's timestamp sequence.
const fallbackNowIndex = 24

// resolutionWindow sizes the backend historical request for a resolution.
func resolutionWindow(r Resolution) time.Duration {
	switch r {
	case Res12h:
		return 12 * time.Hour
	case Res24h:
		return 24 * time.Hour
	case Res48h:
		return 48 * time.Hour
	case Res7d:
		return 7 * 24 * time.Hour
	case Res14d:
		return 14 * 24 * time.Hour
	case Res30d:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// resolutionHours is the backward slice size in fallback mode. 14d and 30d
// reuse the 7-day window because the bulk hourly fetch carries no finer
// history beyond that.
func resolutionHours(r Resolution) int {
	switch r {
	case Res12h:
		return 12
	case Res24h:
		return 24
	case Res48h:
		return 48
	default:
		return 168
	}
}

// pointLabel is a display contract the chart component depends on:
// sub-daily resolutions use "HH:00", longer ones a day/month label.
func pointLabel(ts time.Time, res Resolution) string {
	switch res {
	case Res12h, Res24h, Res48h:
		return fmt.Sprintf("%02d:00", ts.Hour())
	default:
		return ts.Format("2 Jan")
	}
}

// HistoricalFetcher retrieves one bounded historical window for a city.
// Satisfied by the backend provider client.
type HistoricalFetcher interface {
	FetchHistorical(ctx context.Context, cityID string, start, end time.Time) ([]HistoricalRecord, *Failure)
}

// BuildBackendHistory fetches all metric x resolution slices concurrently
// with a bounded pool. A failure on any single pair degrades that slice to
// an empty sequence without aborting the other combinations.
func BuildBackendHistory(ctx context.Context, f HistoricalFetcher, cityID string, now time.Time) TimeSeries {
	series := make(TimeSeries, len(AllMetrics))
	for _, m := range AllMetrics {
		series[m] = make(map[Resolution][]TimePoint, len(AllResolutions))
	}

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(historyParallelism)
	for _, m := range AllMetrics {
		for _, res := range AllResolutions {
			m, res := m, res
			p.Go(func() {
				pts := backendHistorySlice(ctx, f, cityID, m, res, now)
				mu.Lock()
				series[m][res] = pts
				mu.Unlock()
			})
		}
	}
	p.Wait()

	return series
}

func backendHistorySlice(ctx context.Context, f HistoricalFetcher, cityID string, m MetricID, res Resolution, now time.Time) []TimePoint {
	if ctx.Err() != nil {
		return []TimePoint{}
	}

	recs, fail := f.FetchHistorical(ctx, cityID, now.Add(-resolutionWindow(res)), now)
	if fail != nil {
		// Partial failure is absorbed at slice granularity, never escalated.
		return []TimePoint{}
	}

	byInstant := make(map[time.Time]map[string]float64)
	for _, r := range recs {
		v, ok := r.Metrics[m]
		if !ok {
			continue
		}
		slot, ok := byInstant[r.Timestamp]
		if !ok {
			slot = make(map[string]float64)
			byInstant[r.Timestamp] = slot
		}
		slot[r.SourceID] = v
	}

	instants := make([]time.Time, 0, len(byInstant))
	for ts := range byInstant {
		instants = append(instants, ts)
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	pts := make([]TimePoint, 0, len(instants))
	for _, ts := range instants {
		pts = append(pts, TimePoint{
			TimestampLabel: pointLabel(ts, res),
			PerSource:      byInstant[ts],
		})
	}
	return pts
}

// hourIndex locates "now" in the hourly timestamp sequence by matching the
// truncated current hour. When no timestamp matches it falls back to a fixed
// safe index rather than failing.
func hourIndex(times []string, now time.Time) int {
	if len(times) == 0 {
		return -1
	}
	want := now.Format("2006-01-02T15:00")
	for i, t := range times {
		if t == want {
			return i
		}
	}
	idx := fallbackNowIndex
	if idx >= len(times) {
		idx = len(times) - 1
	}
	return idx
}

func hourlyLabel(raw string, res Resolution) string {
	ts, err := time.Parse("2006-01-02T15:04", raw)
	if err != nil {
		if ts, err = time.Parse(time.RFC3339, raw); err != nil {
			return raw
		}
	}
	return pointLabel(ts, res)
}

// perSourceValues fans one measured value out to the synthesized source set
// with the same offset function the normalizer uses, so the current-reading
// card and the chart agree for the same instant.
func perSourceValues(ids []string, m MetricID, base float64) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		out[id] = SyntheticOffset(id, m, base)
	}
	return out
}

// BuildFallbackHistory derives all six resolutions from the bulk
// hourly+daily fetch already in hand. Either input half may be nil; the
// affected metric series degrade to empty slices.
func BuildFallbackHistory(w *FallbackWeather, air *FallbackAir, region string, now time.Time) TimeSeries {
	series := make(TimeSeries, len(AllMetrics))
	for _, m := range AllMetrics {
		series[m] = make(map[Resolution][]TimePoint, len(AllResolutions))

		var times []string
		var values []float64
		if m == MetricAQI {
			if air != nil {
				times, values = air.HourlyTime, air.HourlyAQI
			}
		} else if w != nil {
			times, values = w.Hourly.Time, w.Hourly.series(m)
		}

		nowIdx := hourIndex(times, now)
		ids := syntheticSourcesFor(m, region)
		for _, res := range AllResolutions {
			series[m][res] = fallbackSlice(times, values, nowIdx, res, m, ids)
		}
	}
	return series
}

// fallbackSlice cuts one resolution window backward from the now index.
// Bounds are inclusive, so a full 24h window yields 25 points.
func fallbackSlice(times []string, values []float64, nowIdx int, res Resolution, m MetricID, ids []string) []TimePoint {
	if nowIdx < 0 || len(values) == 0 {
		return []TimePoint{}
	}

	end := nowIdx
	if end >= len(values) {
		end = len(values) - 1
	}
	if end >= len(times) {
		end = len(times) - 1
	}
	start := end - resolutionHours(res)
	if start < 0 {
		start = 0
	}

	pts := make([]TimePoint, 0, end-start+1)
	for i := start; i <= end; i++ {
		pts = append(pts, TimePoint{
			TimestampLabel: hourlyLabel(times[i], res),
			PerSource:      perSourceValues(ids, m, values[i]),
		})
	}
	return pts
}

func offsetLabel(i int) string {
	if i == 0 {
		return "Now"
	}
	return fmt.Sprintf("+%dh", i)
}

// BuildBackendForecast labels the backend's hourly predictions by forward
// offset and fans the single model series out to the synthesized sources.
func BuildBackendForecast(preds []ForecastRecord, region string) ForecastSeries {
	n := len(preds)
	if n > ForecastHorizon {
		n = ForecastHorizon
	}
	ids := syntheticSourcesFor(MetricTemperature, region)
	out := make(ForecastSeries, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, TimePoint{
			TimestampLabel: offsetLabel(i),
			PerSource:      perSourceValues(ids, MetricTemperature, preds[i].Temperature),
		})
	}
	return out
}

// BuildFallbackForecast slices the hourly temperature series forward from
// the now index, bounded by the forecast horizon.
func BuildFallbackForecast(w *FallbackWeather, region string, now time.Time) ForecastSeries {
	if w == nil {
		return ForecastSeries{}
	}
	times, values := w.Hourly.Time, w.Hourly.Temperature
	nowIdx := hourIndex(times, now)
	if nowIdx < 0 || len(values) == 0 {
		return ForecastSeries{}
	}

	ids := syntheticSourcesFor(MetricTemperature, region)
	out := make(ForecastSeries, 0, ForecastHorizon)
	for i := nowIdx; i < len(values) && i < len(times); i++ {
		if i-nowIdx >= ForecastHorizon {
			break
		}
		out = append(out, TimePoint{
			TimestampLabel: offsetLabel(i - nowIdx),
			PerSource:      perSourceValues(ids, MetricTemperature, values[i]),
		})
	}
	return out
}

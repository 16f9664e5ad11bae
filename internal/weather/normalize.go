package weather

import "time"

// NormalizeBackend converts the aggregating backend's per-provider entries
// into per-metric comparison rows. Providers that did not report a metric
// are skipped for that row; rows that end up with zero readings are omitted.
func NormalizeBackend(p *BackendPayload) []MetricRow {
	rows := make([]MetricRow, 0, len(AllMetrics))
	for _, m := range AllMetrics {
		readings := make([]SourceReading, 0, len(p.Sources))
		for i := range p.Sources {
			src := &p.Sources[i]
			v := src.MetricValue(m)
			if v == nil {
				continue
			}
			readings = append(readings, SourceReading{
				SourceID:    src.SourceID,
				DisplayName: SourceDisplayName(src.SourceID, src.SourceName),
				Official:    IsOfficial(src.SourceID),
				Value:       v,
				Unit:        m.Unit(),
				Status:      parseStatus(src.Status),
				ObservedAt:  p.Timestamp,
			})
		}
		if len(readings) == 0 {
			continue
		}
		rows = append(rows, MetricRow{MetricID: m, Label: m.Label(), Readings: readings})
	}
	return rows
}

// NormalizeFallback builds comparison rows from the single fallback
// measurement per metric, synthesizing labelled sources with the
// deterministic offset function so the multi-source display contract holds.
// Either half of the observation may be nil; affected rows are omitted.
func NormalizeFallback(obs *FallbackObservation, observedAt time.Time) []MetricRow {
	rows := make([]MetricRow, 0, len(AllMetrics))
	for _, m := range AllMetrics {
		base := fallbackBase(obs, m)
		if base == nil {
			continue
		}
		ids := syntheticSourcesFor(m, obs.Region)
		readings := make([]SourceReading, 0, len(ids))
		for _, id := range ids {
			v := SyntheticOffset(id, m, *base)
			readings = append(readings, SourceReading{
				SourceID:    id,
				DisplayName: SourceDisplayName(id, ""),
				Official:    IsOfficial(id),
				Value:       &v,
				Unit:        m.Unit(),
				Status:      StatusActive,
				ObservedAt:  observedAt,
			})
		}
		rows = append(rows, MetricRow{MetricID: m, Label: m.Label(), Readings: readings})
	}
	return rows
}

// fallbackBase extracts the one true measurement for a metric, nil when that
// side of the fetch failed or the upstream omitted the field.
func fallbackBase(obs *FallbackObservation, m MetricID) *float64 {
	if m == MetricAQI {
		if obs.Air == nil {
			return nil
		}
		return obs.Air.Current.AQI
	}
	if obs.Weather == nil {
		return nil
	}
	cur := obs.Weather.Current
	switch m {
	case MetricTemperature:
		return cur.Temperature
	case MetricHumidity:
		return cur.Humidity
	case MetricPressure:
		return cur.Pressure
	case MetricWind:
		return cur.WindSpeed
	case MetricPrecipitation:
		if cur.Precipitation != nil {
			return cur.Precipitation
		}
		// The current block sometimes omits precipitation; today's daily
		// sum stands in for it.
		if len(obs.Weather.Daily.PrecipitationSum) > 0 {
			return &obs.Weather.Daily.PrecipitationSum[0]
		}
		return nil
	case MetricUV:
		return cur.UVIndex
	default:
		return nil
	}
}

func parseStatus(s string) ReadingStatus {
	switch s {
	case string(StatusUnavailable):
		return StatusUnavailable
	case string(StatusTimeout):
		return StatusTimeout
	default:
		return StatusActive
	}
}

// AQIBreakdownBackend extracts the per-source air-quality table from the
// backend payload. Sources with no air-quality fields at all are skipped.
func AQIBreakdownBackend(p *BackendPayload) []AQIEntry {
	entries := make([]AQIEntry, 0, len(p.Sources))
	for i := range p.Sources {
		src := &p.Sources[i]
		if src.AQI == nil && src.PM25 == nil && src.PM10 == nil && src.NO2 == nil {
			continue
		}
		entries = append(entries, AQIEntry{
			SourceID: src.SourceID,
			AQI:      src.AQI,
			PM25:     src.PM25,
			PM10:     src.PM10,
			NO2:      src.NO2,
			Status:   parseStatus(src.Status),
		})
	}
	return entries
}

// AQIBreakdownFallback always yields exactly one entry for the single
// fallback provider; a failed air-quality call becomes an unavailable entry
// rather than an absent one.
func AQIBreakdownFallback(air *FallbackAir) []AQIEntry {
	if air == nil {
		return []AQIEntry{{SourceID: "openmeteo", Status: StatusUnavailable}}
	}
	return []AQIEntry{{
		SourceID: "openmeteo",
		AQI:      air.Current.AQI,
		PM25:     air.Current.PM25,
		PM10:     air.Current.PM10,
		NO2:      air.Current.NO2,
		Status:   StatusActive,
	}}
}

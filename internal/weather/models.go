package weather

import (
	"time"
)

// MetricID identifies a single measurable quantity in the comparison matrix.
type MetricID string

const (
	MetricTemperature   MetricID = "temperature"
	MetricHumidity      MetricID = "humidity"
	MetricPressure      MetricID = "pressure"
	MetricWind          MetricID = "wind"
	MetricPrecipitation MetricID = "precipitation"
	MetricUV            MetricID = "uv"
	MetricAQI           MetricID = "aqi"
)

// AllMetrics lists the fixed metric set in display order.
var AllMetrics = []MetricID{
	MetricTemperature,
	MetricHumidity,
	MetricPressure,
	MetricWind,
	MetricPrecipitation,
	MetricUV,
	MetricAQI,
}

// Label returns the human-readable metric name.
func (m MetricID) Label() string {
	switch m {
	case MetricTemperature:
		return "Temperature"
	case MetricHumidity:
		return "Humidity"
	case MetricPressure:
		return "Pressure"
	case MetricWind:
		return "Wind Speed"
	case MetricPrecipitation:
		return "Precipitation"
	case MetricUV:
		return "UV Index"
	case MetricAQI:
		return "Air Quality Index"
	default:
		return string(m)
	}
}

// Unit returns the display unit for the metric.
func (m MetricID) Unit() string {
	switch m {
	case MetricTemperature:
		return "°C"
	case MetricHumidity:
		return "%"
	case MetricPressure:
		return "hPa"
	case MetricWind:
		return "km/h"
	case MetricPrecipitation:
		return "mm"
	case MetricUV:
		return "UV"
	case MetricAQI:
		return "AQI"
	default:
		return ""
	}
}

// ReadingStatus describes the availability of a single source reading.
type ReadingStatus string

const (
	StatusActive      ReadingStatus = "active"
	StatusUnavailable ReadingStatus = "unavailable"
	StatusTimeout     ReadingStatus = "timeout"
)

// SourceReading is one provider's value for one metric. Immutable once built.
type SourceReading struct {
	SourceID    string        `json:"sourceId"`
	DisplayName string        `json:"displayName"`
	Official    bool          `json:"isOfficial"`
	Value       *float64      `json:"value"`
	Unit        string        `json:"unit"`
	Status      ReadingStatus `json:"status"`
	ObservedAt  time.Time     `json:"observedAt"`
}

// MetricRow groups all source readings for one metric. Reading order is
// provider priority (insertion order). Rows with zero readings are never
// emitted; they are omitted from the snapshot instead.
type MetricRow struct {
	MetricID MetricID        `json:"metricId"`
	Label    string          `json:"label"`
	Readings []SourceReading `json:"readings"`
}

// AQIEntry is one source's air-quality breakdown.
type AQIEntry struct {
	SourceID string        `json:"sourceId"`
	AQI      *float64      `json:"aqi"`
	PM25     *float64      `json:"pm25"`
	PM10     *float64      `json:"pm10"`
	NO2      *float64      `json:"no2"`
	Status   ReadingStatus `json:"status"`
}

// Resolution names a historical/forecast time window.
type Resolution string

const (
	Res12h Resolution = "12h"
	Res24h Resolution = "24h"
	Res48h Resolution = "48h"
	Res7d  Resolution = "7d"
	Res14d Resolution = "14d"
	Res30d Resolution = "30d"
)

// AllResolutions lists the fixed resolution set.
var AllResolutions = []Resolution{Res12h, Res24h, Res48h, Res7d, Res14d, Res30d}

// TimePoint is one chart point: a display label plus one value per source.
type TimePoint struct {
	TimestampLabel string             `json:"timestampLabel"`
	PerSource      map[string]float64 `json:"perSourceValue"`
}

// TimeSeries maps metric -> resolution -> chronologically ascending points.
type TimeSeries map[MetricID]map[Resolution][]TimePoint

// ForecastSeries is a single forward-looking slice labelled by offset
// ("Now", "+1h", ...). Bounded to ForecastHorizon points.
type ForecastSeries []TimePoint

// ForecastHorizon bounds the forecast series length.
const ForecastHorizon = 168

// InsightType classifies a derived insight.
type InsightType string

const (
	InsightAlert  InsightType = "alert"
	InsightRecord InsightType = "record"
	InsightTrend  InsightType = "trend"
)

// Severity grades an insight.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Insight is a derived textual statement about the current snapshot.
type Insight struct {
	Type           InsightType `json:"type"`
	Severity       Severity    `json:"severity"`
	Message        string      `json:"message"`
	TimestampLabel string      `json:"timestampLabel"`
	SourceLabel    *string     `json:"sourceLabel"`
}

// DataOrigin records which upstream produced a snapshot.
type DataOrigin string

const (
	OriginBackend  DataOrigin = "aggregatedBackend"
	OriginFallback DataOrigin = "fallbackProvider"
)

// Snapshot is the complete assembled result of one fetch for one city.
// It is built once by the orchestrator and never mutated afterwards.
type Snapshot struct {
	CityName     string         `json:"cityName"`
	Lat          float64        `json:"lat"`
	Lng          float64        `json:"lng"`
	ObservedAt   time.Time      `json:"observedAt"`
	MetricRows   []MetricRow    `json:"metricRows"`
	AQIBreakdown []AQIEntry     `json:"aqiBreakdown"`
	History      TimeSeries     `json:"history"`
	Forecast     ForecastSeries `json:"forecast"`
	Insights     []Insight      `json:"insights"`
	DataOrigin   DataOrigin     `json:"dataOrigin"`
}

// Suggestion is one city search result.
type Suggestion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// City is an entry from the backend's tracked-city catalogue.
type City struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

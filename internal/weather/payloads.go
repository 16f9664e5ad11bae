package weather

import "time"

// BackendSourceEntry is one provider entry from the aggregating backend's
// current-conditions envelope. Nil fields are metrics the provider did not
// report; they never become nil readings in a row.
type BackendSourceEntry struct {
	SourceID      string   `json:"sourceId"`
	SourceName    string   `json:"sourceName"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Pressure      *float64 `json:"pressure"`
	WindSpeed     *float64 `json:"windSpeed"`
	Precipitation *float64 `json:"precipitation"`
	UVIndex       *float64 `json:"uvIndex"`
	AQI           *float64 `json:"aqi"`
	PM25          *float64 `json:"pm25"`
	PM10          *float64 `json:"pm10"`
	NO2           *float64 `json:"no2"`
	Status        string   `json:"status"`
}

// MetricValue returns the entry's value for one metric, nil when absent.
func (e *BackendSourceEntry) MetricValue(m MetricID) *float64 {
	switch m {
	case MetricTemperature:
		return e.Temperature
	case MetricHumidity:
		return e.Humidity
	case MetricPressure:
		return e.Pressure
	case MetricWind:
		return e.WindSpeed
	case MetricPrecipitation:
		return e.Precipitation
	case MetricUV:
		return e.UVIndex
	case MetricAQI:
		return e.AQI
	default:
		return nil
	}
}

// BackendPayload is the decoded /data/current response.
type BackendPayload struct {
	CityID    string
	City      string
	Lat       float64
	Lng       float64
	Timestamp time.Time
	Sources   []BackendSourceEntry
}

// HistoricalRecord is one row of the backend's historical endpoint: one
// source's reported metrics at one instant. Absent map keys mean the source
// did not report that metric.
type HistoricalRecord struct {
	SourceID  string
	Timestamp time.Time
	Metrics   map[MetricID]float64
}

// ForecastRecord is one hourly prediction from the backend forecast model.
type ForecastRecord struct {
	Timestamp   time.Time
	Temperature float64
}

// FallbackCurrent holds the public provider's current conditions. Missing
// upstream keys stay nil and are tolerated everywhere downstream.
type FallbackCurrent struct {
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	WindSpeed     *float64
	Precipitation *float64
	UVIndex       *float64
}

// FallbackHourly holds the public provider's hourly blocks. All value slices
// are parallel to Time; a missing block decodes as an empty slice.
type FallbackHourly struct {
	Time          []string
	Temperature   []float64
	Humidity      []float64
	Pressure      []float64
	WindSpeed     []float64
	Precipitation []float64
	UVIndex       []float64
}

// series returns the hourly values for one metric, nil when the upstream
// omitted that block.
func (h *FallbackHourly) series(m MetricID) []float64 {
	switch m {
	case MetricTemperature:
		return h.Temperature
	case MetricHumidity:
		return h.Humidity
	case MetricPressure:
		return h.Pressure
	case MetricWind:
		return h.WindSpeed
	case MetricPrecipitation:
		return h.Precipitation
	case MetricUV:
		return h.UVIndex
	default:
		return nil
	}
}

// FallbackDaily holds the provider's daily block; used to backfill today's
// precipitation when the current block omits it.
type FallbackDaily struct {
	Time             []string
	PrecipitationSum []float64
}

// FallbackWeather is the decoded weather half of the fallback fetch.
type FallbackWeather struct {
	Current FallbackCurrent
	Hourly  FallbackHourly
	Daily   FallbackDaily
}

// FallbackAirCurrent holds current air-quality values.
type FallbackAirCurrent struct {
	AQI  *float64
	PM25 *float64
	PM10 *float64
	NO2  *float64
}

// FallbackAir is the decoded air-quality half of the fallback fetch.
type FallbackAir struct {
	Current    FallbackAirCurrent
	HourlyTime []string
	HourlyAQI  []float64
}

// GeoResult is a resolved city location. Located is false when geocoding
// failed entirely and the fixed default location was substituted.
type GeoResult struct {
	Name    string
	Region  string
	Country string
	Lat     float64
	Lng     float64
	Located bool
}

// FallbackObservation merges the two independent fallback calls. Either half
// may be nil when that call failed; the normalizer null-fills around it.
type FallbackObservation struct {
	CityName string
	Region   string
	Lat      float64
	Lng      float64
	Weather  *FallbackWeather
	Air      *FallbackAir
}

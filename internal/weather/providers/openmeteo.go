package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/weatherdeck/weatherdeck/internal/weather"
)

// Default public endpoints for the degraded path.
const (
	DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"
	DefaultAirURL     = "https://air-quality-api.open-meteo.com/v1/air-quality"
	DefaultGeoURL     = "https://geocoding-api.open-meteo.com/v1/search"
)

// preferredCountry biases geocoding toward the dashboard's home country.
const preferredCountry = "IN"

// defaultLocation is returned when geocoding fails entirely, so the pipeline
// degrades to a usable location instead of surfacing a dead end.
var defaultLocation = weather.GeoResult{
	Name:    "Bengaluru",
	Region:  "Karnataka",
	Country: "IN",
	Lat:     12.9716,
	Lng:     77.5946,
}

// FallbackClient consumes the public geocoding/weather/air-quality provider.
type FallbackClient struct {
	weatherURL string
	airURL     string
	geoURL     string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewFallbackClient creates the degraded-path client. Empty URLs select the
// public defaults.
func NewFallbackClient(client *http.Client, weatherURL, airURL, geoURL string, logger *zap.Logger) *FallbackClient {
	if weatherURL == "" {
		weatherURL = DefaultWeatherURL
	}
	if airURL == "" {
		airURL = DefaultAirURL
	}
	if geoURL == "" {
		geoURL = DefaultGeoURL
	}
	return &FallbackClient{
		weatherURL: weatherURL,
		airURL:     airURL,
		geoURL:     geoURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry: RetryConfig{
				MaxRetries: 2,
				Min:        500 * time.Millisecond,
				Max:        5 * time.Second,
			},
		},
		circuit: newCircuit("openmeteo"),
		logger:  logger,
	}
}

func (c *FallbackClient) getJSON(ctx context.Context, rawURL string, q url.Values, out interface{}) *weather.Failure {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL+"?"+q.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return weather.RejectedFailure(fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

type geoResultDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
}

type geoResponse struct {
	Results []geoResultDTO `json:"results"`
}

// Geocode resolves a free-text city name. Results tagged with the preferred
// country win over the first hit; total failure degrades to the fixed
// default location rather than erroring.
func (c *FallbackClient) Geocode(ctx context.Context, city string) weather.GeoResult {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "5")
	q.Set("language", "en")
	q.Set("format", "json")

	var resp geoResponse
	if fail := c.getJSON(ctx, c.geoURL, q, &resp); fail != nil || len(resp.Results) == 0 {
		c.logger.Warn("geocoding failed", zap.String("city", city))
		return defaultLocation
	}

	pick := resp.Results[0]
	for _, r := range resp.Results {
		if r.CountryCode == preferredCountry {
			pick = r
			break
		}
	}
	return weather.GeoResult{
		Name:    pick.Name,
		Region:  pick.Admin1,
		Country: pick.CountryCode,
		Lat:     pick.Latitude,
		Lng:     pick.Longitude,
		Located: true,
	}
}

type meteoWeatherResponse struct {
	Current struct {
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Pressure      *float64 `json:"surface_pressure"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		Precipitation *float64 `json:"precipitation"`
		UVIndex       *float64 `json:"uv_index"`
	} `json:"current"`
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		Humidity      []float64 `json:"relative_humidity_2m"`
		Pressure      []float64 `json:"surface_pressure"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		Precipitation []float64 `json:"precipitation"`
		UVIndex       []float64 `json:"uv_index"`
	} `json:"hourly"`
	Daily struct {
		Time             []string  `json:"time"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// FetchWeather performs the bulk current+hourly+daily weather fetch.
func (c *FallbackClient) FetchWeather(ctx context.Context, lat, lng float64) (*weather.FallbackWeather, *weather.Failure) {
	params := "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m,precipitation,uv_index"

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("current", params)
	q.Set("hourly", params)
	q.Set("daily", "precipitation_sum")
	q.Set("past_days", "7")
	q.Set("forecast_days", "7")
	q.Set("timezone", "auto")

	var resp meteoWeatherResponse
	if fail := c.getJSON(ctx, c.weatherURL, q, &resp); fail != nil {
		return nil, fail
	}

	return &weather.FallbackWeather{
		Current: weather.FallbackCurrent{
			Temperature:   resp.Current.Temperature,
			Humidity:      resp.Current.Humidity,
			Pressure:      resp.Current.Pressure,
			WindSpeed:     resp.Current.WindSpeed,
			Precipitation: resp.Current.Precipitation,
			UVIndex:       resp.Current.UVIndex,
		},
		Hourly: weather.FallbackHourly{
			Time:          resp.Hourly.Time,
			Temperature:   resp.Hourly.Temperature,
			Humidity:      resp.Hourly.Humidity,
			Pressure:      resp.Hourly.Pressure,
			WindSpeed:     resp.Hourly.WindSpeed,
			Precipitation: resp.Hourly.Precipitation,
			UVIndex:       resp.Hourly.UVIndex,
		},
		Daily: weather.FallbackDaily{
			Time:             resp.Daily.Time,
			PrecipitationSum: resp.Daily.PrecipitationSum,
		},
	}, nil
}

type meteoAirResponse struct {
	Current struct {
		AQI  *float64 `json:"us_aqi"`
		PM25 *float64 `json:"pm2_5"`
		PM10 *float64 `json:"pm10"`
		NO2  *float64 `json:"nitrogen_dioxide"`
	} `json:"current"`
	Hourly struct {
		Time []string  `json:"time"`
		AQI  []float64 `json:"us_aqi"`
	} `json:"hourly"`
}

// FetchAirQuality performs the independent air-quality fetch.
func (c *FallbackClient) FetchAirQuality(ctx context.Context, lat, lng float64) (*weather.FallbackAir, *weather.Failure) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("current", "us_aqi,pm2_5,pm10,nitrogen_dioxide")
	q.Set("hourly", "us_aqi")
	q.Set("past_days", "7")
	q.Set("timezone", "auto")

	var resp meteoAirResponse
	if fail := c.getJSON(ctx, c.airURL, q, &resp); fail != nil {
		return nil, fail
	}

	return &weather.FallbackAir{
		Current: weather.FallbackAirCurrent{
			AQI:  resp.Current.AQI,
			PM25: resp.Current.PM25,
			PM10: resp.Current.PM10,
			NO2:  resp.Current.NO2,
		},
		HourlyTime: resp.Hourly.Time,
		HourlyAQI:  resp.Hourly.AQI,
	}, nil
}

// SearchSuggestions returns geocoder hits as city suggestions. It never
// errors; upstream problems yield an empty list.
func (c *FallbackClient) SearchSuggestions(ctx context.Context, query string) []weather.Suggestion {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", "8")
	q.Set("language", "en")
	q.Set("format", "json")

	var resp geoResponse
	if fail := c.getJSON(ctx, c.geoURL, q, &resp); fail != nil {
		c.logger.Debug("suggestion search failed", zap.String("query", query), zap.Error(fail))
		return []weather.Suggestion{}
	}

	out := make([]weather.Suggestion, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, weather.Suggestion{
			ID:     fmt.Sprintf("om-%d", r.ID),
			Name:   r.Name,
			Region: r.Admin1,
			Lat:    r.Latitude,
			Lng:    r.Longitude,
		})
	}
	return out
}

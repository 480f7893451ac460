package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// WeatherAPIClient implements Client against WeatherAPI.com.
type WeatherAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	backoff backoffConfig
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPIClient builds a client with retry/backoff and a circuit
// breaker. The http.Client's timeout bounds each individual attempt.
func NewWeatherAPIClient(client *http.Client, apiKey string) *WeatherAPIClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WeatherAPIClient{
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		client:  client,
		backoff: backoffConfig{
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

func (c *WeatherAPIClient) get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, errors.New("weatherapi api key is not configured")
	}
	query.Set("key", c.apiKey)

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	return doRequestWithResilience(ctx, c.client, c.backoff, c.circuit, buildRequest)
}

// Forecast fetches current conditions plus today's forecast with air quality.
func (c *WeatherAPIClient) Forecast(ctx context.Context, city string) (*Report, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("days", "1")
	query.Set("aqi", "yes")

	resp, err := c.get(ctx, "forecast.json", query)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %s: %w", city, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelsLikeC float64 `json:"feelslike_c"`
			Humidity   int     `json:"humidity"`
			WindKph    float64 `json:"wind_kph"`
			WindDir    string  `json:"wind_dir"`
			UV         float64 `json:"uv"`
			VisKm      float64 `json:"vis_km"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
			AirQuality struct {
				EPAIndex int `json:"us-epa-index"`
			} `json:"air_quality"`
		} `json:"current"`
		Forecast struct {
			ForecastDay []struct {
				Day struct {
					WillRain     int `json:"daily_will_it_rain"`
					ChanceOfRain int `json:"daily_chance_of_rain"`
				} `json:"day"`
				Hour []struct {
					TimeEpoch  int64 `json:"time_epoch"`
					WillItRain int   `json:"will_it_rain"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast for %s: %w", city, err)
	}

	report := &Report{
		City: city,
		Current: Current{
			Condition:  payload.Current.Condition.Text,
			TempC:      payload.Current.TempC,
			FeelsLikeC: payload.Current.FeelsLikeC,
			Humidity:   payload.Current.Humidity,
			WindKph:    payload.Current.WindKph,
			WindDir:    payload.Current.WindDir,
			UV:         payload.Current.UV,
			VisKm:      payload.Current.VisKm,
			EPAIndex:   payload.Current.AirQuality.EPAIndex,
		},
	}

	if len(payload.Forecast.ForecastDay) > 0 {
		day := payload.Forecast.ForecastDay[0]
		report.Day = DayForecast{
			WillRain:   day.Day.WillRain != 0,
			RainChance: day.Day.ChanceOfRain,
		}
		for _, h := range day.Hour {
			report.Hours = append(report.Hours, HourForecast{
				Epoch:    h.TimeEpoch,
				WillRain: h.WillItRain != 0,
			})
		}
	}

	return report, nil
}

// History fetches one past day's aggregates.
func (c *WeatherAPIClient) History(ctx context.Context, city string, date time.Time) (*DayStats, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("dt", date.Format("2006-01-02"))

	resp, err := c.get(ctx, "history.json", query)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", city, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Day struct {
					MaxTempC      float64 `json:"maxtemp_c"`
					MinTempC      float64 `json:"mintemp_c"`
					AvgTempC      float64 `json:"avgtemp_c"`
					TotalPrecipMM float64 `json:"totalprecip_mm"`
					Condition     struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", city, err)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("no history data for %s", city)
	}

	day := payload.Forecast.ForecastDay[0].Day
	return &DayStats{
		Condition:     day.Condition.Text,
		MaxTempC:      day.MaxTempC,
		MinTempC:      day.MinTempC,
		AvgTempC:      day.AvgTempC,
		TotalPrecipMM: day.TotalPrecipMM,
	}, nil
}

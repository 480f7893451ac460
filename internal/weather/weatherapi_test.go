package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const forecastPayload = `{
  "current": {
    "temp_c": 18.5,
    "feelslike_c": 17.0,
    "humidity": 60,
    "wind_kph": 15.2,
    "wind_dir": "SW",
    "uv": 6.0,
    "vis_km": 10.0,
    "condition": {"text": "Light rain"},
    "air_quality": {"us-epa-index": 2}
  },
  "forecast": {
    "forecastday": [{
      "day": {"daily_will_it_rain": 1, "daily_chance_of_rain": 80},
      "hour": [
        {"time_epoch": 1700000000, "will_it_rain": 0},
        {"time_epoch": 1700003600, "will_it_rain": 1}
      ]
    }]
  }
}`

const historyPayload = `{
  "forecast": {
    "forecastday": [{
      "day": {
        "maxtemp_c": 8.0,
        "mintemp_c": 1.5,
        "avgtemp_c": 4.2,
        "totalprecip_mm": 3.1,
        "condition": {"text": "Overcast"}
      }
    }]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *WeatherAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewWeatherAPIClient(srv.Client(), "test-key")
	c.baseURL = srv.URL
	return c
}

func TestForecastDecodesPayload(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"key":  r.URL.Query().Get("key"),
			"q":    r.URL.Query().Get("q"),
			"days": r.URL.Query().Get("days"),
			"aqi":  r.URL.Query().Get("aqi"),
		}
		w.Write([]byte(forecastPayload))
	})

	report, err := c.Forecast(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}

	if gotQuery["key"] != "test-key" || gotQuery["q"] != "Paris" || gotQuery["days"] != "1" || gotQuery["aqi"] != "yes" {
		t.Fatalf("bad query: %v", gotQuery)
	}
	if report.Current.Condition != "Light rain" || report.Current.TempC != 18.5 {
		t.Fatalf("bad current: %+v", report.Current)
	}
	if report.Current.EPAIndex != 2 {
		t.Fatalf("bad aqi: %d", report.Current.EPAIndex)
	}
	if !report.Day.WillRain || report.Day.RainChance != 80 {
		t.Fatalf("bad day forecast: %+v", report.Day)
	}
	if len(report.Hours) != 2 || report.Hours[0].WillRain || !report.Hours[1].WillRain {
		t.Fatalf("bad hours: %+v", report.Hours)
	}
}

func TestHistoryDecodesPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dt"); got != "2020-01-15" {
			t.Errorf("bad dt param: %q", got)
		}
		w.Write([]byte(historyPayload))
	})

	date := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	stats, err := c.History(context.Background(), "Oslo", date)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if stats.Condition != "Overcast" || stats.MaxTempC != 8.0 || stats.TotalPrecipMM != 3.1 {
		t.Fatalf("bad stats: %+v", stats)
	}
}

func TestHistoryEmptyPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"forecast": {"forecastday": []}}`))
	})

	_, err := c.History(context.Background(), "Nowhere", time.Now().AddDate(0, 0, -1))
	if err == nil {
		t.Fatal("want error for empty history payload")
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewWeatherAPIClient(http.DefaultClient, "")

	if _, err := c.Forecast(context.Background(), "Paris"); err == nil {
		t.Fatal("want error when api key is missing")
	}
}

func TestForecastRetriesServerErrors(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(forecastPayload))
	})
	c.backoff.InitialInterval = time.Millisecond

	report, err := c.Forecast(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want 2 attempts, got %d", calls)
	}
	if report.Current.TempC != 18.5 {
		t.Fatalf("bad report after retry: %+v", report.Current)
	}
}

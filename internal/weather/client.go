package weather

import (
	"context"
	"time"
)

// Current holds the normalized current conditions for a city.
type Current struct {
	Condition  string
	TempC      float64
	FeelsLikeC float64
	Humidity   int
	WindKph    float64
	WindDir    string
	UV         float64
	VisKm      float64
	EPAIndex   int // US-EPA air quality index, 1..6, 0 when unknown
}

// HourForecast is one hourly slot of today's forecast.
type HourForecast struct {
	Epoch    int64
	WillRain bool
}

// DayForecast summarizes today's forecast.
type DayForecast struct {
	WillRain   bool
	RainChance int // percent
}

// Report is the full current-plus-today view used for replies and digests.
type Report struct {
	City    string
	Current Current
	Day     DayForecast
	Hours   []HourForecast
}

// DayStats holds one historical day's aggregates.
type DayStats struct {
	Condition     string
	MaxTempC      float64
	MinTempC      float64
	AvgTempC      float64
	TotalPrecipMM float64
}

// Client abstracts the upstream weather provider.
type Client interface {
	// Forecast fetches current conditions and today's forecast for a city.
	Forecast(ctx context.Context, city string) (*Report, error)
	// History fetches one past day's aggregates for a city.
	History(ctx context.Context, city string, date time.Time) (*DayStats, error)
}

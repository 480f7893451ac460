package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken       string        `envconfig:"BOT_TOKEN" required:"true" validate:"required"`
	WeatherAPIKey  string        `envconfig:"WEATHERAPI_KEY" required:"true" validate:"required"`
	Whitelist      []int64       `envconfig:"WHITELIST"`                                            // user IDs allowed to use the bot
	Admins         []int64       `envconfig:"ADMINS"`                                               // user IDs allowed to impersonate
	AlertTime      string        `envconfig:"ALERT_TIME" default:"08:00" validate:"datetime=15:04"` // daily digest time-of-day
	AlertTZ        string        `envconfig:"ALERT_TZ" default:"UTC" validate:"timezone"`           // IANA zone for the digest schedule
	DBPath         string        `envconfig:"DB_PATH" default:"./data/weatherbot.db"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	WeatherTimeout time.Duration `envconfig:"WEATHER_TIMEOUT" default:"15s"` // per-lookup bound
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// AlertLocation resolves the configured schedule timezone.
// Validation already guarantees the zone loads.
func (c Config) AlertLocation() (*time.Location, error) {
	return time.LoadLocation(c.AlertTZ)
}

// Package scheduler fans out the daily weather digest. It fires once per day
// at the configured local time and works from a registry snapshot taken at
// the start of each firing.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/Neel-XV/tg-weather-bot/internal/domain"
	"github.com/Neel-XV/tg-weather-bot/internal/registry"
	"github.com/Neel-XV/tg-weather-bot/internal/weather"
)

// Sender is the minimal interface the scheduler needs to send a text message.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler sends every registered user one consolidated digest per day.
type Scheduler struct {
	cron      *gocron.Scheduler
	registry  *registry.Registry
	weather   weather.Client
	sender    Sender
	log       *zap.Logger
	alertTime string // wall-clock "HH:MM"
	loc       *time.Location
	timeout   time.Duration // bound on each weather lookup
}

// New creates a Scheduler firing daily at alertTime in loc.
func New(reg *registry.Registry, wc weather.Client, sender Sender, log *zap.Logger, alertTime string, loc *time.Location, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:      gocron.NewScheduler(loc),
		registry:  reg,
		weather:   wc,
		sender:    sender,
		log:       log,
		alertTime: alertTime,
		loc:       loc,
		timeout:   timeout,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
// If today's firing time has already passed, the first run is tomorrow.
func (s *Scheduler) Start() error {
	_, err := s.cron.Every(1).Day().At(s.alertTime).Do(func() {
		s.fire(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule daily digest: %w", err)
	}
	s.cron.StartAsync()

	hour, minute, err := domain.ParseClock(s.alertTime)
	if err != nil {
		return err
	}
	s.log.Info("daily digest scheduled",
		zap.String("at", s.alertTime),
		zap.String("tz", s.loc.String()),
		zap.Time("next", domain.NextDaily(time.Now(), hour, minute, s.loc)),
	)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// fire sends one digest per registered user. Users are isolated from each
// other: a failed lookup or send only degrades that user's own digest.
func (s *Scheduler) fire(ctx context.Context) {
	snapshot := s.registry.Snapshot()
	s.log.Info("running daily weather digest", zap.Int("users", len(snapshot)))

	for userID, cities := range snapshot {
		digest := s.buildDigest(ctx, cities)
		if err := s.sender.SendMessage(userID, digest); err != nil {
			s.log.Error("digest delivery failed", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		s.log.Info("digest delivered", zap.Int64("user_id", userID), zap.Int("locations", len(cities)))
	}
}

// buildDigest assembles one consolidated message covering all of a user's
// locations. A location whose lookup fails is reported inline.
func (s *Scheduler) buildDigest(ctx context.Context, cities []string) string {
	sections := make([]string, 0, len(cities)+1)
	sections = append(sections, "*Your Daily Weather Digest*")

	for _, city := range cities {
		lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
		report, err := s.weather.Forecast(lookupCtx, city)
		cancel()
		if err != nil {
			s.log.Warn("digest lookup failed", zap.String("city", city), zap.Error(err))
			sections = append(sections, fmt.Sprintf("⚠️ %s: weather data unavailable", city))
			continue
		}
		sections = append(sections, weather.FormatReport(report))
	}

	return strings.Join(sections, "\n\n")
}

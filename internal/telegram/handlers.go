package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Neel-XV/tg-weather-bot/internal/domain"
	"github.com/Neel-XV/tg-weather-bot/internal/registry"
	"github.com/Neel-XV/tg-weather-bot/internal/weather"
)

// handleWeather replies with a report per city: the given one, or every
// saved location of the effective user when no city is passed.
func (r *Router) handleWeather(ctx context.Context, chatID, effective int64, args []string) {
	var cities []string
	if len(args) > 0 {
		cities = []string{strings.Join(args, " ")}
	} else {
		cities = r.registry.List(effective)
	}
	if len(cities) == 0 {
		r.reply(chatID, textNoLocations)
		return
	}

	for _, city := range cities {
		report, err := r.fetchForecast(ctx, city)
		if err != nil {
			r.log.Warn("weather lookup failed", zap.String("city", city), zap.Error(err))
			r.reply(chatID, fmt.Sprintf("Could not retrieve weather for %s.", city))
			continue
		}
		r.reply(chatID, weather.FormatReport(report))
	}
}

func (r *Router) handleAdd(ctx context.Context, chatID, effective int64, args []string) {
	if len(args) == 0 {
		r.reply(chatID, usageAdd)
		return
	}
	city := strings.Join(args, " ")

	switch err := r.registry.Add(ctx, effective, city); {
	case err == nil:
		r.reply(chatID, fmt.Sprintf("Added '%s' to your locations.", city))
	case errors.Is(err, registry.ErrDuplicate):
		r.reply(chatID, fmt.Sprintf("'%s' is already in your list.", city))
	case errors.Is(err, registry.ErrEmptyName):
		r.reply(chatID, usageAdd)
	default:
		r.log.Error("add location failed", zap.Int64("user_id", effective), zap.Error(err))
		r.reply(chatID, textStoreFailure)
	}
}

func (r *Router) handleRemove(ctx context.Context, chatID, effective int64, args []string) {
	if len(args) == 0 {
		r.reply(chatID, usageRemove)
		return
	}
	city := strings.Join(args, " ")

	switch err := r.registry.Remove(ctx, effective, city); {
	case err == nil:
		r.reply(chatID, fmt.Sprintf("Removed '%s'.", city))
	case errors.Is(err, registry.ErrNotFound):
		r.reply(chatID, fmt.Sprintf("'%s' not found in your list.", city))
	case errors.Is(err, registry.ErrEmptyName):
		r.reply(chatID, usageRemove)
	default:
		r.log.Error("remove location failed", zap.Int64("user_id", effective), zap.Error(err))
		r.reply(chatID, textStoreFailure)
	}
}

func (r *Router) handleList(chatID, effective int64) {
	locations := r.registry.List(effective)
	if len(locations) == 0 {
		r.reply(chatID, textNoLocations)
		return
	}
	r.reply(chatID, "*Your locations:*\n- "+strings.Join(locations, "\n- "))
}

// handleHistory validates the date before any upstream call; a malformed or
// future date never reaches the weather client.
func (r *Router) handleHistory(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		r.reply(chatID, usageHistory)
		return
	}

	date, err := domain.ParseDate(args[0], time.Now())
	switch {
	case errors.Is(err, domain.ErrFutureDate):
		r.reply(chatID, "Cannot get history for a future date.")
		return
	case err != nil:
		r.reply(chatID, "Invalid date format. Please use YYYY-MM-DD.")
		return
	}

	city := strings.Join(args[1:], " ")

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stats, err := r.weather.History(lookupCtx, city, date)
	if err != nil {
		r.log.Warn("history lookup failed", zap.String("city", city), zap.Error(err))
		r.reply(chatID, fmt.Sprintf("Could not get history for %s on %s.", city, date.Format("2006-01-02")))
		return
	}
	r.reply(chatID, weather.FormatHistory(city, date, stats))
}

func (r *Router) fetchForecast(ctx context.Context, city string) (*weather.Report, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.weather.Forecast(lookupCtx, city)
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Neel-XV/tg-weather-bot/internal/config"
	"github.com/Neel-XV/tg-weather-bot/internal/domain"
	"github.com/Neel-XV/tg-weather-bot/internal/registry"
	"github.com/Neel-XV/tg-weather-bot/internal/scheduler"
	"github.com/Neel-XV/tg-weather-bot/internal/store"
	"github.com/Neel-XV/tg-weather-bot/internal/telegram"
	"github.com/Neel-XV/tg-weather-bot/internal/weather"
)

// App wires the store, registry, weather client, router and scheduler
// together and owns the polling loop.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting weather bot",
		zap.String("username", a.bot.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("alert_time", a.cfg.AlertTime),
		zap.String("alert_tz", a.cfg.AlertTZ),
	)

	// Open SQLite and load the full registry. An unreadable store is fatal:
	// neither the registry nor the schedule can be trusted without it.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo

	reg, err := registry.Load(ctx, repo)
	if err != nil {
		a.log.Error("load registry failed", zap.Error(err))
		return err
	}
	a.log.Info("registry loaded", zap.Int("users", len(reg.Users())))

	access := domain.NewAccessList(a.cfg.Whitelist, a.cfg.Admins)
	weatherClient := weather.NewWeatherAPIClient(
		&http.Client{Timeout: a.cfg.WeatherTimeout},
		a.cfg.WeatherAPIKey,
	)

	a.router = telegram.NewRouter(a.bot, a.log, access, reg, weatherClient, a.cfg.WeatherTimeout)

	loc, err := a.cfg.AlertLocation()
	if err != nil {
		return err
	}
	a.sched = scheduler.New(reg, weatherClient, a.router, a.log, a.cfg.AlertTime, loc, a.cfg.WeatherTimeout)
	if err := a.sched.Start(); err != nil {
		a.log.Error("start scheduler failed", zap.Error(err))
		return err
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			// Messages from different users are independent; the registry
			// serializes the shared state.
			go a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) shutdown() {
	if a.sched != nil {
		a.sched.Stop()
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
}

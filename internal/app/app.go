package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/ai"
	"github.com/Sohiburr/ToBeControl/internal/config"
	"github.com/Sohiburr/ToBeControl/internal/scheduler"
	"github.com/Sohiburr/ToBeControl/internal/store"
	"github.com/Sohiburr/ToBeControl/internal/telegram"
)

// App is the bot process: Telegram long-polling dispatch plus the
// reminder scanner, sharing one store.
type App struct {
	cfg  config.Config
	log  *zap.Logger
	bot  *tgbotapi.BotAPI
	repo store.Repo
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	return &App{cfg: cfg, log: log, bot: bot}, nil
}

// Run wires the store, AI provider, router and scanner, then serves
// updates until SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		return err
	}

	// A down database degrades every operation instead of killing the bot.
	a.repo = OpenStore(ctx, a.cfg, loc, a.log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.repo.Close(closeCtx)
	}()

	var provider ai.Provider
	if a.cfg.GroqAPIKey != "" {
		provider = ai.NewGroq(a.cfg.GroqAPIKey, a.log)
		a.log.Info("ai chat enabled")
	} else {
		provider = ai.Disabled{}
		a.log.Info("ai chat disabled, no api key")
	}

	router := telegram.NewRouter(a.bot, a.log, a.repo, provider)
	scanner := scheduler.New(a.repo, a.log, router, loc)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scanner.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	a.log.Info("bot running", zap.String("tz", loc.String()))
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()
			return nil
		case upd := <-updCh:
			router.HandleUpdate(ctx, upd)
		}
	}
}

// OpenStore connects to MongoDB, or returns the degraded store when the
// database is unreachable. Shared by both processes.
func OpenStore(ctx context.Context, cfg config.Config, loc *time.Location, log *zap.Logger) store.Repo {
	repo, err := store.Open(ctx, cfg.MongoURI, cfg.DBName, loc, log)
	if err != nil {
		log.Error("mongodb unavailable, running degraded", zap.Error(err))
		return store.NewUnavailable(log)
	}
	log.Info("mongodb ready", zap.String("db", cfg.DBName))
	return repo
}

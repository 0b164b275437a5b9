package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/app"
	"github.com/Sohiburr/ToBeControl/internal/config"
	"github.com/Sohiburr/ToBeControl/internal/logger"
	"github.com/Sohiburr/ToBeControl/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("load timezone failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := app.OpenStore(ctx, cfg, loc, log)
	srv := web.New(cfg.BotToken, cfg.BotUsername, repo, loc, log)

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")

		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			log.Warn("server shutdown error", zap.Error(err))
		}
		_ = repo.Close(shCtx)
	}()

	log.Info("dashboard listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Listen(cfg.HTTPAddr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

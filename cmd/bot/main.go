package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ivankudzin/sanctionbot/internal/app"
	"github.com/ivankudzin/sanctionbot/internal/config"
	"github.com/ivankudzin/sanctionbot/internal/infra/logger"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.DryRun() {
		log.Warn("TOKEN is empty, running in dry-run mode without a platform connection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("create app", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal("app failed", zap.Error(err))
	}
}

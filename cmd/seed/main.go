// Command seed fills an empty catalog with the sample products and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"boutique-shop/internal/config"
	"boutique-shop/internal/database"
	"boutique-shop/internal/logger"
	"boutique-shop/internal/repository"
	"boutique-shop/internal/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to an env file merged into the environment")
	pflag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// A one-shot command still runs when LOG_LEVEL or LOG_FILE is unusable
	log, err := logger.New(logger.Options{Env: cfg.Server.Env, Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		log = logger.NewWithDefaults()
		log.Warn("Falling back to the default logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbService, err := database.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbService.Close(context.Background())

	seeder := service.NewSeeder(repository.NewProductRepository(dbService.Store()), log)
	result, err := seeder.Seed(ctx)
	if err != nil {
		return err
	}

	log.Info("Seeding finished",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("skipped", result.Skipped),
		zap.Int("inserted", result.Inserted),
	)
	return nil
}

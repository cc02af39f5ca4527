package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/Freeeeeet/booking_bot/internal/app"
	"github.com/Freeeeeet/booking_bot/internal/config"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/seed"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/migrations"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "fixtures.yaml", "path to YAML fixtures")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file, logger); err != nil {
		logger.Fatal("Seed failed", zap.String("file", *file), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, file string, logger *zap.Logger) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fixtures, err := seed.Parse(f)
	if err != nil {
		return err
	}

	pool, err := app.NewPostgresPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return err
	}

	availabilityCache, closeCache, err := app.NewCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	eventTypeRepo := repository.NewEventTypeRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	eventTypeService := service.NewEventTypeService(eventTypeRepo, availabilityCache, logger)
	scheduleService := service.NewScheduleService(eventTypeRepo, scheduleRepo, availabilityCache, logger)

	summary, err := seed.NewImporter(eventTypeService, scheduleService, logger).Import(ctx, fixtures)
	if err != nil {
		return err
	}

	logger.Info("✅ Fixtures imported",
		zap.String("file", file),
		zap.Int("event_types", summary.EventTypes),
		zap.Int("overrides", summary.Overrides),
		zap.Int("rules", summary.Rules))
	return nil
}

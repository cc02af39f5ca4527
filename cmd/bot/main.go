package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/booking_bot/internal/api"
	"github.com/Freeeeeet/booking_bot/internal/app"
	"github.com/Freeeeeet/booking_bot/internal/config"
	"github.com/Freeeeeet/booking_bot/internal/controller"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/migrations"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting booking bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
		zap.Bool("telegram", cfg.BotEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Booking bot stopped with error", zap.Error(err))
	}
	logger.Info("✅ Booking bot stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := app.NewPostgresPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	availabilityCache, closeCache, err := app.NewCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	// Репозитории
	eventTypeRepo := repository.NewEventTypeRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	// Сервисы
	location := cfg.Location()
	eventTypeService := service.NewEventTypeService(eventTypeRepo, availabilityCache, logger)
	scheduleService := service.NewScheduleService(eventTypeRepo, scheduleRepo, availabilityCache, logger)
	availabilityService := service.NewAvailabilityService(eventTypeRepo, scheduleRepo, appointmentRepo, availabilityCache, location, cfg.DatesHorizonDays, logger)
	bookingService := service.NewBookingService(eventTypeRepo, appointmentRepo, availabilityCache, location, logger)

	jobs := []app.Job{
		{
			Name: "complete_elapsed",
			Spec: cfg.Cron.CompleteSpec,
			Run: func(ctx context.Context) error {
				_, err := bookingService.CompleteElapsed(ctx)
				return err
			},
		},
		{
			Name: "reconcile_rules",
			Spec: cfg.Cron.ReconcileSpec,
			Run: func(ctx context.Context) error {
				_, err := scheduleService.ReconcileAll(ctx)
				return err
			},
		},
	}

	var botController *controller.BotController
	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}

		botController = controller.NewBotController(b, eventTypeService, availabilityService, bookingService, location, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		jobs = append(jobs, app.Job{
			Name: "expire_sessions",
			Spec: "@every 5m",
			Run: func(context.Context) error {
				if n := botController.ExpireSessions(); n > 0 {
					logger.Debug("Expired booking dialogs", zap.Int("count", n))
				}
				return nil
			},
		})
	}

	scheduler, err := app.NewScheduler(location, logger, jobs...)
	if err != nil {
		return err
	}

	apiServer := api.NewServer(eventTypeService, availabilityService, scheduleService, bookingService, api.Options{
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	}, logger)
	httpServer := app.NewHTTPServer(cfg.HTTP.Addr, apiServer.Handler(), logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	scheduler.Start()

	if botController != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			botController.Start(runCtx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Run(runCtx); err != nil {
			errCh <- err
			cancel()
		}
	}()

	<-runCtx.Done()
	logger.Info("🛑 Shutdown signal received; shutting down gracefully...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	scheduler.Stop(stopCtx)

	wg.Wait()
	close(errCh)
	return <-errCh
}

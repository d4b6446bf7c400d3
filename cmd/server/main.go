package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/community_scheduler/internal/app"
	"github.com/Freeeeeet/community_scheduler/internal/config"
	"github.com/Freeeeeet/community_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/community_scheduler/internal/moderation"
	"github.com/Freeeeeet/community_scheduler/internal/notify"
	"github.com/Freeeeeet/community_scheduler/internal/repository"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
	"github.com/Freeeeeet/community_scheduler/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting community scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	pool, err := app.NewPool(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Фильтр создаётся один раз и передаётся всем, кому нужна валидация
	filter := moderation.NewFilter(cfg.BlockedWords)
	validate, err := moderation.NewValidator(filter, logger)
	if err != nil {
		return err
	}

	notifier, closeNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	db := base.NewRepository(pool)
	serviceRepo := repository.NewServiceRepository(db, logger)
	blockRepo := repository.NewBlockRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	scheduleRepo := repository.NewServiceScheduleRepository(db, logger)

	catalogService := service.NewCatalogService(serviceRepo, validate, logger)
	blockService := service.NewBlockService(db, blockRepo, serviceRepo, notifier, logger)
	bookingService := service.NewBookingService(db, blockService, bookingRepo, notifier, logger)
	seriesService := service.NewSeriesService(db, activityRepo, validate, notifier, logger)
	attendanceService := service.NewAttendanceService(activityRepo, attendanceRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, serviceRepo, blockService, cfg.MaterializeWeeksAhead, logger)

	scheduler := app.NewScheduler(scheduleService, cfg.MaterializeInterval, cfg.MaterializeWeeksAhead, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	api := httpapi.New(httpapi.Deps{
		Catalog:    catalogService,
		Blocks:     blockService,
		Bookings:   bookingService,
		Series:     seriesService,
		Attendance: attendanceService,
		Schedules:  scheduleService,
		DB:         pool,
		Validate:   validate,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// newNotifier собирает получателей событий из конфига
func newNotifier(cfg *config.Config, logger *zap.Logger) (service.Notifier, func(), error) {
	var (
		targets []notify.Notifier
		closers []func()
	)

	if cfg.TelegramEnabled() {
		tgBot, err := notify.NewTelegramBot(cfg.TelegramToken)
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, notify.NewTelegramNotifier(tgBot, cfg.TelegramAdminChatID, logger))
		logger.Info("Telegram notifications enabled", zap.Int64("chat_id", cfg.TelegramAdminChatID))
	}

	if cfg.KafkaEnabled() {
		writer, err := notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			return nil, nil, err
		}
		kafkaNotifier := notify.NewKafkaNotifier(writer, logger)
		targets = append(targets, kafkaNotifier)
		closers = append(closers, func() {
			if err := kafkaNotifier.Close(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		})
		logger.Info("Kafka notifications enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(targets) == 0 {
		return notify.Nop{}, closeAll, nil
	}

	return notify.NewMulti(targets...), closeAll, nil
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/mailer"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/config"
	"eventhub/pkg/db"
	"eventhub/pkg/dedupe"
	"eventhub/pkg/logger"
	"eventhub/pkg/mq"
	"eventhub/pkg/outbox"
	redisclient "eventhub/pkg/redis"
)

// sweepInterval is how often the worker re-scans for stale assignments.
// The sweep itself is idempotent, so the interval only affects latency.
const sweepInterval = time.Hour

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Server.LogMode)
	defer log.Sync()

	log.Info("Starting worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	var guard service.DedupeGuard
	if cfg.Redis.Addr != "" {
		rdb := redisclient.NewClient(cfg.Redis)
		defer rdb.Close()
		guard = dedupe.NewDeduper(rdb, 24*time.Hour, log)
	}

	userRepo := repository.NewUserRepository(dbConn, log)
	eventRepo := repository.NewEventRepository(dbConn, log)
	cateringRepo := repository.NewCateringRepository(dbConn, log)
	roomRepo := repository.NewRoomRepository(dbConn, log)
	flyerRepo := repository.NewFlyerRepository(dbConn, log)
	emailLogRepo := repository.NewEmailLogRepository(dbConn, log)
	outboxRepo := outbox.NewRepository(dbConn)

	mailClient := mailer.NewClient(cfg.Mail, log)
	notifier := service.NewNotifier(emailLogRepo, mailClient, guard, cfg.App.Name, cfg.App.BaseURL, log)

	reminderService := service.NewReminderService(eventRepo, userRepo, cateringRepo, roomRepo, flyerRepo, notifier, outboxRepo, log)

	// Outbox dispatcher. Optional: without a broker the outbox rows just
	// accumulate until a dispatcher drains them.
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()

		dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
		go dispatcher.Start(ctx)
	} else {
		log.Warn("MQ_URL not set, outbox dispatcher disabled")
	}

	log.Info("Worker ready", zap.Duration("sweep_interval", sweepInterval))

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	// Run one sweep at startup, then on the ticker.
	runSweep(ctx, reminderService, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("Worker shutting down")
			return
		case <-ticker.C:
			runSweep(ctx, reminderService, log)
		}
	}
}

func runSweep(ctx context.Context, reminders *service.ReminderService, log *zap.Logger) {
	sent, err := reminders.Sweep(ctx)
	if err != nil {
		log.Error("Reminder sweep failed", zap.Int("reminders_sent", sent), zap.Error(err))
		return
	}
	log.Info("Reminder sweep finished", zap.Int("reminders_sent", sent))
}

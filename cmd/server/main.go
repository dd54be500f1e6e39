package main

import (
	"time"

	"go.uber.org/zap"

	"eventhub/internal/api"
	"eventhub/internal/mailer"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/config"
	"eventhub/pkg/db"
	"eventhub/pkg/dedupe"
	"eventhub/pkg/logger"
	"eventhub/pkg/outbox"
	redisclient "eventhub/pkg/redis"
)

func main() {
	// 1. Load config
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Server.LogMode)
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis dedupe guard. Optional: without Redis the notifier
	// still dedupes against the email log.
	var guard service.DedupeGuard
	if cfg.Redis.Addr != "" {
		rdb := redisclient.NewClient(cfg.Redis)
		defer rdb.Close()
		guard = dedupe.NewDeduper(rdb, 24*time.Hour, log)
	}

	// 4. Init repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	eventRepo := repository.NewEventRepository(dbConn, log)
	cateringRepo := repository.NewCateringRepository(dbConn, log)
	roomRepo := repository.NewRoomRepository(dbConn, log)
	flyerRepo := repository.NewFlyerRepository(dbConn, log)
	tokenRepo := repository.NewActionTokenRepository(dbConn, log)
	emailLogRepo := repository.NewEmailLogRepository(dbConn, log)
	yearRepo := repository.NewAcademicYearRepository(dbConn, log)
	expenseRepo := repository.NewExpenseRepository(dbConn, log)
	checklistRepo := repository.NewChecklistRepository(dbConn, log)
	outboxRepo := outbox.NewRepository(dbConn)

	// 5. Init mail transport and notifier
	mailClient := mailer.NewClient(cfg.Mail, log)
	notifier := service.NewNotifier(emailLogRepo, mailClient, guard, cfg.App.Name, cfg.App.BaseURL, log)

	// 6. Init services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	eventService := service.NewEventService(eventRepo, cateringRepo, roomRepo, flyerRepo, yearRepo, checklistRepo, outboxRepo, log)
	taskService := service.NewTaskService(eventRepo, userRepo, cateringRepo, roomRepo, flyerRepo, notifier, outboxRepo, log)
	reminderService := service.NewReminderService(eventRepo, userRepo, cateringRepo, roomRepo, flyerRepo, notifier, outboxRepo, log)
	yearService := service.NewYearService(yearRepo, log)

	// Catering and token services reference each other: tokens carry
	// catering decisions, catering submission mints tokens.
	tokenService := service.NewTokenService(tokenRepo, eventRepo, log)
	cateringService := service.NewCateringService(eventRepo, cateringRepo, userRepo, tokenService, notifier, outboxRepo, cfg.App.BaseURL, log)
	tokenService.BindDecisions(cateringService)

	// 7. Init handlers
	authHandler := api.NewAuthHandler(authService)
	eventHandler := api.NewEventHandler(eventService)
	cateringHandler := api.NewCateringHandler(cateringService)
	taskHandler := api.NewTaskHandler(taskService)
	actionHandler := api.NewActionHandler(tokenService)
	reminderHandler := api.NewReminderHandler(reminderService)
	yearHandler := api.NewYearHandler(yearService)
	expenseHandler := api.NewExpenseHandler(expenseRepo)
	checklistHandler := api.NewChecklistHandler(checklistRepo)
	userHandler := api.NewUserHandler(userRepo)
	emailLogHandler := api.NewEmailLogHandler(emailLogRepo)

	// 8. Init router
	router := api.NewRouter(
		authHandler,
		eventHandler,
		cateringHandler,
		taskHandler,
		actionHandler,
		reminderHandler,
		yearHandler,
		expenseHandler,
		checklistHandler,
		userHandler,
		emailLogHandler,
		cfg.JWT.Secret,
		dbConn,
	)

	// 9. Run server
	log.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}

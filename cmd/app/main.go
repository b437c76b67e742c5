package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiodesk/internal/catalog"
	"studiodesk/internal/config"
	"studiodesk/internal/db"
	"studiodesk/internal/email"
	"studiodesk/internal/events"
	"studiodesk/internal/jobs"
	"studiodesk/internal/ledger"
	"studiodesk/internal/logger"
	"studiodesk/internal/reservation"
	"studiodesk/internal/schedule"
	"studiodesk/internal/server"
	"studiodesk/internal/subscription"
	"studiodesk/internal/treasury"
	"studiodesk/internal/user"

	"github.com/redis/go-redis/v9"
)

// @title StudioDesk API
// @version 1.0
// @description Booking, subscription and treasury API for a fitness studio.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting StudioDesk", "timezone", cfg.StudioLocation.String(), "refund_window", cfg.CancelRefundWindow)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	mail := email.New(email.Config{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
	}, rdb)
	defer mail.Close()

	publisher := events.NewNopPublisher()
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("Event publishing disabled", "error", err)
		} else {
			publisher = amqpPublisher
			logger.Info("Publishing domain events to RabbitMQ", "exchange", events.Exchange)
		}
	}
	defer publisher.Close()

	userRepo := user.NewRepository(database)
	notifier := email.NewNotifier(mail, email.ContactFunc(func(ctx context.Context, userID int) (*email.Recipient, error) {
		c, err := userRepo.Contact(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &email.Recipient{Email: c.Email, Name: c.FullName}, nil
	}), cfg.StudioLocation, cfg.StudioName)

	catalogService := catalog.NewService(catalog.NewRepository(database))
	scheduleService := schedule.NewService(schedule.NewRepository(database), time.Now)
	subscriptionService := subscription.NewService(subscription.NewRepository(database), catalogService, subscription.Options{
		Location:  cfg.StudioLocation,
		Notifier:  notifier,
		Publisher: publisher,
	})
	reservationService := reservation.NewService(reservation.NewRepository(database), scheduleService, reservation.Options{
		Location:     cfg.StudioLocation,
		RefundWindow: cfg.CancelRefundWindow,
		Notifier:     notifier,
		Publisher:    publisher,
	})
	userService := user.NewService(userRepo, user.Options{
		JWTSecret:     cfg.JWTSecret,
		Location:      cfg.StudioLocation,
		Subscriptions: subscriptionService,
		Reservations:  reservationService,
		Notifier:      notifier,
	})

	scheduler, err := jobs.NewScheduler(jobs.Config{
		ExpirySchedule:     cfg.ExpirySweepSchedule,
		QueueGaugeSchedule: cfg.QueueGaugeSchedule,
		Location:           cfg.StudioLocation,
	}, subscriptionService, mail)
	if err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}

	srv := server.New(cfg, server.Services{
		Users:         userService,
		Catalog:       catalogService,
		Schedules:     scheduleService,
		Subscriptions: subscriptionService,
		Reservations:  reservationService,
		Ledger:        ledger.NewService(ledger.NewRepository(database), time.Now),
		Treasury:      treasury.NewService(treasury.NewRepository(database), time.Now, publisher),
	},
		server.HealthCheck{Name: "postgres", Check: database.PingContext},
		server.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mail.Start(ctx)
	scheduler.Start()

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)
	cancel()

	logger.Info("Server stopped")
}

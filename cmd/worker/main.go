package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwangikc/orderdesk/internal/config"
	"github.com/mwangikc/orderdesk/internal/db"
	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/notify"
	"github.com/mwangikc/orderdesk/internal/queue"
	"github.com/mwangikc/orderdesk/internal/repository"
	"github.com/mwangikc/orderdesk/internal/sms"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting orderdesk notification worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	orderRepo := repository.NewOrderRepository(database.DB)
	customerRepo := repository.NewCustomerRepository(database.DB)

	gateway := sms.NewHTTPGateway(sms.Config{
		BaseURL:  cfg.SMS.BaseURL,
		Username: cfg.SMS.Username,
		APIKey:   cfg.SMS.APIKey,
		SenderID: cfg.SMS.SenderID,
		Timeout:  cfg.SMS.Timeout,
	})
	channel := sms.NewNotificationChannel(gateway, cfg.SMS.Timeout, logger)

	processor := notify.NewProcessor(orderRepo, customerRepo, channel, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting notification consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
		)

		handler := func(ctx context.Context, job *models.NotificationJob) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		cancel()

		// Give in-flight sends time to finish before the process exits.
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}

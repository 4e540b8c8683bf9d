package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwangikc/orderdesk/internal/auth"
	"github.com/mwangikc/orderdesk/internal/config"
	"github.com/mwangikc/orderdesk/internal/db"
	"github.com/mwangikc/orderdesk/internal/handler"
	"github.com/mwangikc/orderdesk/internal/metrics"
	"github.com/mwangikc/orderdesk/internal/notify"
	"github.com/mwangikc/orderdesk/internal/queue"
	"github.com/mwangikc/orderdesk/internal/repository"
	"github.com/mwangikc/orderdesk/internal/service"
	"github.com/mwangikc/orderdesk/internal/sms"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting orderdesk API server")

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

	// Repositories
	customerRepo := repository.NewCustomerRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)

	// SMS gateway is constructed once here and injected; nothing else in
	// the process touches gateway credentials.
	gateway := sms.NewHTTPGateway(sms.Config{
		BaseURL:  cfg.SMS.BaseURL,
		Username: cfg.SMS.Username,
		APIKey:   cfg.SMS.APIKey,
		SenderID: cfg.SMS.SenderID,
		Timeout:  cfg.SMS.Timeout,
	})
	channel := sms.NewNotificationChannel(gateway, cfg.SMS.Timeout, logger)

	// Notification dispatch: inline by default, queued when configured.
	var notifier notify.Notifier
	var queueClient queue.Client

	if cfg.Notify.Mode == config.NotifyModeQueue {
		queueClient, err = queue.NewRedisClient(queue.RedisConfig{
			URL:       cfg.Queue.RedisURL,
			QueueName: cfg.Queue.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer queueClient.Close()

		notifier = notify.NewQueueNotifier(queueClient, logger)
	} else {
		notifier = notify.NewDirectNotifier(channel, cfg.Notify.Timeout, logger)
	}

	// Services
	customerSvc := service.NewCustomerService(customerRepo, logger)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, notifier, cfg.Notify.NotifyOnUpdate, logger)

	// Auth
	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	oidcProvider := auth.NewOIDCProvider(auth.OIDCConfig{
		Issuer:       cfg.Auth.OIDCIssuer,
		ClientID:     cfg.Auth.OIDCClientID,
		ClientSecret: cfg.Auth.OIDCSecret,
		RedirectURL:  cfg.Auth.OIDCRedirectURL,
		Audience:     cfg.Auth.OIDCAudience,
		JWKSURL:      cfg.Auth.OIDCJWKSURL,
	})

	// Handlers
	customerHandler := handler.NewCustomerHandler(customerSvc, logger)
	orderHandler := handler.NewOrderHandler(orderSvc, logger)
	authHandler := handler.NewAuthHandler(oidcProvider, tokenIssuer, logger)
	healthHandler := handler.NewHealthHandler(database.DB, queueClient, logger)

	// Router
	r := chi.NewRouter()

	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Post("/refresh", authHandler.Refresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(tokenIssuer))

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customerHandler.CreateCustomer)
			r.Get("/", customerHandler.ListCustomers)
			r.Get("/{id}", customerHandler.GetCustomer)
			r.Put("/{id}", customerHandler.UpdateCustomer)
			r.Delete("/{id}", customerHandler.DeleteCustomer)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Put("/{id}", orderHandler.UpdateOrder)
			r.Delete("/{id}", orderHandler.DeleteOrder)
		})
	})

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening",
			slog.String("addr", addr),
			slog.String("notify_mode", cfg.Notify.Mode),
		)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}

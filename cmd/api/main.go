package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lapulperia/lapulperia-backend/api/routes"
	"github.com/lapulperia/lapulperia-backend/internal/ads"
	"github.com/lapulperia/lapulperia-backend/internal/auth"
	"github.com/lapulperia/lapulperia-backend/internal/jobs"
	"github.com/lapulperia/lapulperia-backend/internal/messages"
	"github.com/lapulperia/lapulperia-backend/internal/notifications"
	"github.com/lapulperia/lapulperia-backend/internal/orders"
	"github.com/lapulperia/lapulperia-backend/internal/products"
	"github.com/lapulperia/lapulperia-backend/internal/realtime"
	"github.com/lapulperia/lapulperia-backend/internal/reviews"
	"github.com/lapulperia/lapulperia-backend/internal/services"
	"github.com/lapulperia/lapulperia-backend/internal/stores"
	"github.com/lapulperia/lapulperia-backend/internal/users"
	"github.com/lapulperia/lapulperia-backend/pkg/auth/session"
	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/db"
	"github.com/lapulperia/lapulperia-backend/pkg/identity"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/metrics"
	"github.com/lapulperia/lapulperia-backend/pkg/migrate"
	"github.com/lapulperia/lapulperia-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "lapulperia-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = dbClient.Close() }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("auto-migrating: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	sessions, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return fmt.Errorf("building session manager: %w", err)
	}

	identityClient, err := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.Timeout)
	if err != nil {
		return fmt.Errorf("building identity client: %w", err)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	storeRepo := stores.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	jobRepo := jobs.NewRepository(gormDB)
	serviceRepo := services.NewRepository(gormDB)
	messageRepo := messages.NewRepository(gormDB)
	adRepo := ads.NewRepository(gormDB)

	realtimeMetrics := metrics.NewRealtimeMetrics(prometheus.DefaultRegisterer)
	registry := realtime.NewRegistry(logg, realtimeMetrics)
	notifier, err := realtime.NewNotifier(registry, storeRepo, logg, realtimeMetrics)
	if err != nil {
		return fmt.Errorf("building notifier: %w", err)
	}

	authSvc, err := auth.NewService(identityClient, userRepo, sessions)
	if err != nil {
		return fmt.Errorf("building auth service: %w", err)
	}
	storeSvc, err := stores.NewService(storeRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building store service: %w", err)
	}
	productSvc, err := products.NewService(productRepo, storeRepo)
	if err != nil {
		return fmt.Errorf("building product service: %w", err)
	}
	orderSvc, err := orders.NewService(orderRepo, storeRepo, userRepo, notifier)
	if err != nil {
		return fmt.Errorf("building order service: %w", err)
	}
	reviewSvc, err := reviews.NewService(reviewRepo, storeRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building review service: %w", err)
	}
	jobSvc, err := jobs.NewService(jobRepo, storeRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building job service: %w", err)
	}
	serviceSvc, err := services.NewService(serviceRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building service directory: %w", err)
	}
	messageSvc, err := messages.NewService(messageRepo)
	if err != nil {
		return fmt.Errorf("building message service: %w", err)
	}
	adSvc, err := ads.NewService(adRepo, storeRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building ad service: %w", err)
	}
	notificationSvc, err := notifications.NewService(orderRepo, storeRepo, userRepo)
	if err != nil {
		return fmt.Errorf("building notification service: %w", err)
	}

	wsHandler := realtime.NewHandler(registry, orderSvc, cfg.Realtime, logg)

	handler := routes.New(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Sessions:      sessions,
		Auth:          authSvc,
		Stores:        storeSvc,
		Products:      productSvc,
		Orders:        orderSvc,
		Reviews:       reviewSvc,
		Jobs:          jobSvc,
		Services:      serviceSvc,
		Messages:      messageSvc,
		Ads:           adSvc,
		Notifications: notificationSvc,
		Registry:      registry,
		WSHandler:     wsHandler,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server.listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

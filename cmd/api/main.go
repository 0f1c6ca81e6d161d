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

	"checkout_phone_backend/internal/adapters"
	"checkout_phone_backend/internal/checkout"
	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/events"
	apphttp "checkout_phone_backend/internal/http"
	"checkout_phone_backend/internal/http/router"
	"checkout_phone_backend/internal/phonevalidation"
	"checkout_phone_backend/internal/scheduler"
	"checkout_phone_backend/internal/settings"
	"checkout_phone_backend/internal/settings/service"
	"checkout_phone_backend/platform/cache"
	"checkout_phone_backend/platform/config"
	"checkout_phone_backend/platform/db"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	health := []apphttp.HealthChecker{pool}

	redisClient := initRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		health = append(health, adapters.NewRedisHealth(redisClient))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	plan := phone.NewLibphonenumber()

	catalog, err := messages.Load(cfg.GetDefaultLocale())
	if err != nil {
		log.Error("failed to load checkout messages", "error", err)
		panic("failed to load checkout messages: " + err.Error())
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	settingsModule := settings.NewModule(pool, redisClient, cfg.GetPhoneSettingsCacheTTL(), plan, service.PolicyFromConfig(cfg), eventBus, val, log, appMetrics)
	checkoutModule := checkout.NewModule(pool, plan, settingsModule.Service(), catalog, eventBus, val, log, appMetrics)
	checkoutModule.RegisterHandlers(eventBus)
	phoneModule := phonevalidation.NewModule(plan, settingsModule.Service(), val, appMetrics)

	reformatClient, closeClient := initReformatScheduler(cfg, log)
	if closeClient != nil {
		defer closeClient()
	}
	if reformatClient != nil {
		adapters.NewPhoneReformatTrigger(reformatClient, log).RegisterHandlers(eventBus)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		Metrics:  appMetrics,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			settingsModule,
			checkoutModule,
			phoneModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; settings cache and order reformatting disabled")
		return nil
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; continuing without settings cache", "error", err)
		return nil
	}
	return client
}

func initReformatScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.PhoneReformatScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reformat scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

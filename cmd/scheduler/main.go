package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout_phone_backend/internal/checkout"
	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/events"
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
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if !cfg.IsSchedulerEnabled() {
		log.Error("REDIS_URL not configured; scheduler has nothing to consume")
		panic("scheduler requires REDIS_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	plan := phone.NewLibphonenumber()
	workerMetrics := metrics.New(prometheus.NewRegistry())

	catalog, err := messages.Load(cfg.GetDefaultLocale())
	if err != nil {
		log.Error("failed to load checkout messages", "error", err)
		panic("failed to load checkout messages: " + err.Error())
	}

	// Worker-side wiring only; no HTTP routes are registered here.
	settingsModule := settings.NewModule(pool, redisClient, cfg.GetPhoneSettingsCacheTTL(), plan, service.PolicyFromConfig(cfg), eventBus, val, log, workerMetrics)
	checkoutModule := checkout.NewModule(pool, plan, settingsModule.Service(), catalog, eventBus, val, log, workerMetrics)

	worker, err := scheduler.NewWorker(cfg, checkoutModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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

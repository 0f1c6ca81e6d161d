// Command phone-reformat-backfill rewrites every stored order phone in the
// currently configured output style. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"checkout_phone_backend/internal/checkout"
	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/events"
	"checkout_phone_backend/internal/settings"
	"checkout_phone_backend/internal/settings/service"
	"checkout_phone_backend/platform/config"
	"checkout_phone_backend/platform/db"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	batchSize := flag.Int("batch", 200, "orders per keyset page")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting order phone backfill", "batch", *batchSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	catalog, err := messages.Load(cfg.GetDefaultLocale())
	if err != nil {
		log.Error("failed to load checkout messages", "error", err)
		panic("failed to load checkout messages: " + err.Error())
	}

	bus := events.NewInMemoryBus(log)
	val := validator.New()
	plan := phone.NewLibphonenumber()
	m := metrics.New(prometheus.NewRegistry())

	// No Redis here: the backfill always reads settings straight from PostgreSQL.
	settingsModule := settings.NewModule(pool, nil, 0, plan, service.PolicyFromConfig(cfg), bus, val, log, m)
	checkoutModule := checkout.NewModule(pool, plan, settingsModule.Service(), catalog, bus, val, log, m)

	updated, err := checkoutModule.Service().ReformatStoredOrders(ctx, *batchSize)
	if err != nil {
		log.Error("order phone backfill failed", "error", err, "updated", updated)
		os.Exit(1)
	}
	log.Info("order phone backfill complete", "updated", updated)
}

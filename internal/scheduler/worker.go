package scheduler

import (
	"context"
	"fmt"

	"checkout_phone_backend/platform/config"
	"checkout_phone_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// OrderReformatter rewrites stored order phones in the current output style.
type OrderReformatter interface {
	ReformatStoredOrders(ctx context.Context, batchSize int) (int, error)
}

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	reformatter OrderReformatter
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reformatter OrderReformatter, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:      server,
		mux:         asynq.NewServeMux(),
		reformatter: reformatter,
		log:         log,
	}
	w.mux.HandleFunc(TaskOrdersPhoneReformat, w.handleOrdersPhoneReformat)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleOrdersPhoneReformat(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOrdersPhoneReformatPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	updated, err := w.reformatter.ReformatStoredOrders(ctx, payload.BatchSize)
	if err != nil {
		return err
	}

	w.log.WithContext(ctx).Info("orders phone reformat task done",
		"requested_format", payload.OutputFormat,
		"orders_updated", updated,
	)
	return nil
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_phone_backend/platform/cache"
	"checkout_phone_backend/platform/config"

	"github.com/hibiken/asynq"
)

// reformatUniqueTTL collapses repeated settings saves into one pending task.
const reformatUniqueTTL = 10 * time.Minute

type Client struct {
	client *asynq.Client
	queue  string
}

// PhoneReformatScheduler enqueues background reformatting of stored phones.
type PhoneReformatScheduler interface {
	EnqueuePhoneReformat(ctx context.Context, payload OrdersPhoneReformatPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueuePhoneReformat schedules a reformat run. A task already pending for the
// same output format is not duplicated.
func (c *Client) EnqueuePhoneReformat(ctx context.Context, payload OrdersPhoneReformatPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewOrdersPhoneReformatTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(3),
		asynq.Unique(reformatUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := cache.ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

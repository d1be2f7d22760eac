package queue

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
)

// Consumer pops archive jobs off the queue and hands them to a handler.
// Jobs whose handler fails are parked on the dead-letter list.
type Consumer struct {
	client *redis.Client
	queue  string
	dlq    string
	log    zerolog.Logger
}

type MessageHandler func(ctx context.Context, data []byte) error

func NewConsumer(client *redis.Client, cfg *config.Config) *Consumer {
	return &Consumer{
		client: client,
		queue:  cfg.Archive.Queue,
		dlq:    cfg.Archive.Queue + cfg.Redis.DLQSuffix,
		log:    logger.Get(),
	}
}

func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			result, err := c.client.BRPop(ctx, 5*time.Second, c.queue).Result()
			if err != nil {
				if err == redis.Nil {
					continue // timeout, keep polling
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.Error().Err(err).Str("queue", c.queue).Msg("Failed to consume message")
				continue
			}

			if len(result) < 2 {
				continue
			}

			message := result[1]
			if err := handler(ctx, []byte(message)); err != nil {
				c.log.Error().Err(err).Str("queue", c.queue).Msg("Failed to process message")
				if dlqErr := c.MoveToDLQ(ctx, []byte(message)); dlqErr != nil {
					c.log.Error().Err(dlqErr).Str("dlq", c.dlq).Msg("Failed to move message to DLQ")
				}
			}
		}
	}
}

// MoveToDLQ parks a message on the dead-letter list. Handlers that finish a
// job after returning from the handler call use it to park failures the
// Consume loop can no longer see.
func (c *Consumer) MoveToDLQ(ctx context.Context, message []byte) error {
	return c.client.LPush(ctx, c.dlq, message).Err()
}

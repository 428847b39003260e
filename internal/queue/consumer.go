package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg redis.XMessage) error
}

const batchSize = 16

// Consumer drains the task stream through a consumer group. A message is
// acked only after its handler succeeds; failed or orphaned messages stay
// pending and are reclaimed once idle longer than the reclaim window.
type Consumer struct {
	client       *redis.Client
	stream       string
	group        string
	name         string
	reclaimAfter time.Duration
	log          zerolog.Logger
	handler      MessageHandler
}

func NewConsumer(client *redis.Client, stream, group, name string, reclaimAfter time.Duration, log zerolog.Logger, handler MessageHandler) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		group:        group,
		name:         name,
		reclaimAfter: reclaimAfter,
		log:          log,
		handler:      handler,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	reclaim := time.NewTicker(c.reclaimAfter)
	defer reclaim.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-reclaim.C:
			if err := c.reclaimPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Error().Err(err).Msg("reclaim pending failed")
			}
		default:
		}

		if err := c.consume(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.log.Error().Err(err).Msg("stream read failed")
			time.Sleep(2 * time.Second)
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, ">"},
		Count:    batchSize,
		Block:    5 * time.Second,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			c.deliver(ctx, msg)
		}
	}
	return nil
}

// deliver runs the handler and acks on success. On failure the message is
// left pending so a later reclaim pass retries it.
func (c *Consumer) deliver(ctx context.Context, msg redis.XMessage) {
	if err := c.handler.Handle(ctx, msg); err != nil {
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("task failed")
		return
	}
	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
	}
}

func (c *Consumer) reclaimPending(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.stream,
		Group:  c.group,
		Idle:   c.reclaimAfter,
		Start:  "-",
		End:    "+",
		Count:  batchSize,
	}).Result()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	ids := make([]string, 0, len(pending))
	for _, entry := range pending {
		ids = append(ids, entry.ID)
	}

	msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.name,
		MinIdle:  c.reclaimAfter,
		Messages: ids,
	}).Result()
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		c.deliver(ctx, msg)
	}
	return nil
}

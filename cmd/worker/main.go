package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"gomall/internal/cache"
	"gomall/internal/config"
	"gomall/internal/database"
	"gomall/internal/jobs"
	"gomall/internal/log"
	"gomall/internal/queue"
	"gomall/internal/repository"
	"gomall/internal/tasks"
)

const consumerGroup = "mall-workers"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment).With().Str("app", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	if err := redisClient.XGroupCreateMkStream(ctx, jobs.TaskStream, consumerGroup, "0").Err(); err != nil {
		// BUSYGROUP means another worker already created the group.
		if !isBusyGroup(err) {
			logger.Fatal().Err(err).Msg("create consumer group failed")
		}
	}

	hostname, _ := os.Hostname()
	processor := tasks.NewProcessor(
		repository.NewOrderRepository(dbPool),
		repository.NewStatsRepository(dbPool),
		redisClient,
		cfg,
		logger,
	)
	consumer := queue.NewConsumer(redisClient, jobs.TaskStream, consumerGroup, hostname, time.Minute, logger, processor)

	logger.Info().Str("stream", jobs.TaskStream).Msg("worker starting")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}
	logger.Info().Msg("worker exited cleanly")
}

func isBusyGroup(err error) bool {
	var redisErr redis.Error
	return errors.As(err, &redisErr) && len(redisErr.Error()) >= 9 && redisErr.Error()[:9] == "BUSYGROUP"
}

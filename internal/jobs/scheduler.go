package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// TaskStream is the Redis stream the worker consumes.
const TaskStream = "mall:tasks"

type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	// Stale PENDING orders are swept shortly after midnight.
	if _, err := s.cron.AddFunc("0 5 0 * * *", s.enqueueOrderExpiry); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.enqueueStatsRefresh); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits up to five seconds for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueOrderExpiry() {
	if err := s.enqueueTask(map[string]any{"type": "orders:expire"}); err != nil {
		s.log.Error().Err(err).Msg("enqueue order expiry failed")
	}
}

func (s *Scheduler) enqueueStatsRefresh() {
	if err := s.enqueueTask(map[string]any{"type": "stats:refresh"}); err != nil {
		s.log.Error().Err(err).Msg("enqueue stats refresh failed")
	}
}

func (s *Scheduler) enqueueTask(payload map[string]any) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: TaskStream,
		Values: payload,
	}).Result()
	return err
}

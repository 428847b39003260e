package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gomall/internal/config"
	"gomall/internal/repository"
)

// Processor executes the housekeeping tasks the scheduler enqueues.
type Processor struct {
	orders *repository.OrderRepository
	stats  *repository.StatsRepository
	cache  *redis.Client
	cfg    *config.AppConfig
	logger zerolog.Logger
}

type TaskPayload struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func NewProcessor(orders *repository.OrderRepository, stats *repository.StatsRepository, cache *redis.Client, cfg *config.AppConfig, logger zerolog.Logger) *Processor {
	return &Processor{
		orders: orders,
		stats:  stats,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "orders:expire":
		return p.handleOrderExpiry(ctx)
	case "stats:refresh":
		return p.handleStatsRefresh(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handleOrderExpiry(ctx context.Context) error {
	cutoff := time.Now().Add(-p.cfg.Orders.ExpireAfter)
	count, err := p.orders.ExpirePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire pending orders: %w", err)
	}
	if count > 0 {
		p.logger.Info().Int("count", count).Msg("expired pending orders")
	}
	return nil
}

// handleStatsRefresh rewrites the statistics cache so admin dashboards read
// warm data instead of paying for the aggregate queries.
func (p *Processor) handleStatsRefresh(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}

	snapshots := map[string]func(context.Context) (any, error){
		"stats:system": func(ctx context.Context) (any, error) { return p.stats.System(ctx) },
		"stats:sales":  func(ctx context.Context) (any, error) { return p.stats.Sales(ctx) },
		"stats:orders": func(ctx context.Context) (any, error) { return p.stats.OrdersByStatus(ctx) },
		"stats:productRanking": func(ctx context.Context) (any, error) {
			return p.stats.ProductRanking(ctx, 10)
		},
		"stats:userRegistrations": func(ctx context.Context) (any, error) {
			return p.stats.UserRegistrations(ctx, 30)
		},
	}

	for key, fetch := range snapshots {
		data, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", key, err)
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := p.cache.Set(ctx, key, encoded, p.cfg.Orders.StatsTTL).Err(); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

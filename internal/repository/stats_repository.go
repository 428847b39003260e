package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gomall/internal/models"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) System(ctx context.Context) (models.SystemStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'PENDING')
	`
	var stats models.SystemStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.UserCount,
		&stats.ProductCount,
		&stats.OrderCount,
		&stats.PendingCount,
	)
	return stats, err
}

func (r *StatsRepository) Sales(ctx context.Context) (models.SalesStats, error) {
	const query = `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE status IN ('PAID','SHIPPED','COMPLETED')), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE status IN ('PAID','SHIPPED','COMPLETED') AND created_at >= CURRENT_DATE), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'REFUNDED'), 0)
		FROM orders
	`
	var stats models.SalesStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalSales,
		&stats.TodaySales,
		&stats.TotalOrders,
		&stats.TodayOrders,
		&stats.RefundedTotal,
	)
	return stats, err
}

func (r *StatsRepository) ProductRanking(ctx context.Context, limit int) ([]models.ProductRankEntry, error) {
	const query = `
		SELECT oi.product_id, oi.product_name, SUM(oi.quantity)::int, SUM(oi.price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status IN ('PAID','SHIPPED','COMPLETED')
		GROUP BY oi.product_id, oi.product_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranking := []models.ProductRankEntry{}
	for rows.Next() {
		var entry models.ProductRankEntry
		if err := rows.Scan(&entry.ProductID, &entry.ProductName, &entry.Sales, &entry.Revenue); err != nil {
			return nil, err
		}
		ranking = append(ranking, entry)
	}
	return ranking, rows.Err()
}

func (r *StatsRepository) UserRegistrations(ctx context.Context, days int) ([]models.RegistrationPoint, error) {
	const query = `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD'), COUNT(*)::int
		FROM users
		WHERE created_at >= CURRENT_DATE - $1 * INTERVAL '1 day'
		GROUP BY created_at::date
		ORDER BY created_at::date
	`
	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []models.RegistrationPoint{}
	for rows.Next() {
		var point models.RegistrationPoint
		if err := rows.Scan(&point.Date, &point.Count); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

func (r *StatsRepository) OrdersByStatus(ctx context.Context) (models.OrderStats, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*)::int FROM orders GROUP BY status`)
	if err != nil {
		return models.OrderStats{}, err
	}
	defer rows.Close()

	stats := models.OrderStats{ByStatus: map[models.OrderStatus]int{}}
	for rows.Next() {
		var status models.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.OrderStats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

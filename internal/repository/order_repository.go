package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gomall/internal/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_no, user_id, total_amount, status, pay_method, refund_reason,
	receiver, phone, address, carrier, tracking_no, created_at, updated_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	if err := row.Scan(
		&o.ID,
		&o.OrderNo,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.PayMethod,
		&o.RefundReason,
		&o.Shipping.Receiver,
		&o.Shipping.Phone,
		&o.Shipping.Address,
		&o.Shipping.Carrier,
		&o.Shipping.TrackingNo,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return o, nil
}

// Create inserts the order with its item snapshots, adjusts product stock and
// sales counters, and removes the purchased cart lines, all in one
// transaction. There is deliberately no cross-call transaction with the
// client's cart view; the client refetches after ordering.
func (r *OrderRepository) Create(ctx context.Context, order models.Order, cartLineIDs []string) (models.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
		INSERT INTO orders (id, order_no, user_id, total_amount, status, pay_method, refund_reason,
			receiver, phone, address, carrier, tracking_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', '', $6, $7, $8, '', '', NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, insertOrder,
		order.ID, order.OrderNo, order.UserID, order.TotalAmount, order.Status,
		order.Shipping.Receiver, order.Shipping.Phone, order.Shipping.Address,
	); err != nil {
		return models.Order{}, err
	}

	const insertItem = `
		INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	const adjustStock = `
		UPDATE products SET stock = stock - $2, sales = sales + $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, insertItem,
			item.ID, order.ID, item.ProductID, item.ProductName, item.Price, item.Quantity, item.ImageURL,
		); err != nil {
			return models.Order{}, err
		}
		cmd, err := tx.Exec(ctx, adjustStock, item.ProductID, item.Quantity)
		if err != nil {
			return models.Order{}, err
		}
		if cmd.RowsAffected() == 0 {
			return models.Order{}, fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductID)
		}
	}

	if len(cartLineIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`,
			order.UserID, cartLineIDs); err != nil {
			return models.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Order{}, err
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	const query = `
		SELECT id, product_id, product_name, price, quantity, image_url
		FROM order_items WHERE order_id = $1 ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type OrderFilter struct {
	// UserID empty means the admin view over all orders.
	UserID  string
	Status  string
	Keyword string
	Limit   int
	Offset  int
}

func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) (models.OrderPage, error) {
	where := `WHERE ($1 = '' OR user_id = $1)
		AND ($2 = '' OR status = $2)
		AND ($3 = '' OR order_no ILIKE '%' || $3 || '%' OR receiver ILIKE '%' || $3 || '%')`

	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $4 OFFSET $5`, orderColumns, where)
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Status, filter.Keyword, filter.Limit, filter.Offset)
	if err != nil {
		return models.OrderPage{}, err
	}
	defer rows.Close()

	page := models.OrderPage{Orders: []models.Order{}}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return models.OrderPage{}, err
		}
		page.Orders = append(page.Orders, order)
	}
	if err := rows.Err(); err != nil {
		return models.OrderPage{}, err
	}

	for i := range page.Orders {
		items, err := r.listItems(ctx, page.Orders[i].ID)
		if err != nil {
			return models.OrderPage{}, err
		}
		page.Orders[i].Items = items
	}

	countQuery := `SELECT COUNT(*) FROM orders ` + where
	if err := r.pool.QueryRow(ctx, countQuery, filter.UserID, filter.Status, filter.Keyword).Scan(&page.Total); err != nil {
		return models.OrderPage{}, err
	}
	return page, nil
}

// StatusUpdate carries the column writes that ride along with a status change.
type StatusUpdate struct {
	Status       models.OrderStatus
	PayMethod    string
	RefundReason string
	Carrier      string
	TrackingNo   string
}

// UpdateStatus writes the new status unconditionally; the storefront performs
// no transition-legality check and neither does the backend.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, userID string, update StatusUpdate) error {
	const query = `
		UPDATE orders
		SET status = $3,
			pay_method = CASE WHEN $4 = '' THEN pay_method ELSE $4 END,
			refund_reason = CASE WHEN $5 = '' THEN refund_reason ELSE $5 END,
			carrier = CASE WHEN $6 = '' THEN carrier ELSE $6 END,
			tracking_no = CASE WHEN $7 = '' THEN tracking_no ELSE $7 END,
			updated_at = NOW()
		WHERE id = $1 AND ($2 = '' OR user_id = $2)
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID,
		update.Status, update.PayMethod, update.RefundReason, update.Carrier, update.TrackingNo)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ExpirePending cancels PENDING orders created before the cutoff and returns
// how many were touched. Used by the worker, not the request path.
func (r *OrderRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `
		UPDATE orders SET status = 'CANCELLED', updated_at = NOW()
		WHERE status = 'PENDING' AND created_at < $1
	`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

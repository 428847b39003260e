package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gomall/internal/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const cartColumns = `c.id, c.user_id, c.quantity, c.selected, c.created_at, c.updated_at,
	p.id, p.name, p.price, p.image_url`

func scanCartItem(row pgx.Row) (models.CartItem, error) {
	var item models.CartItem
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Quantity,
		&item.Selected,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Product.ID,
		&item.Product.Name,
		&item.Product.Price,
		&item.Product.ImageURL,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CartItem{}, ErrCartItemNotFound
		}
		return models.CartItem{}, err
	}
	return item, nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`, cartColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add merges into an existing line for the same product, otherwise inserts a
// new selected line. Returns the resulting line.
func (r *CartRepository) Add(ctx context.Context, id string, userID string, productID string, quantity int) (models.CartItem, error) {
	const query = `
		INSERT INTO cart_items (id, user_id, product_id, quantity, selected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id
	`
	var lineID string
	if err := r.pool.QueryRow(ctx, query, id, userID, productID, quantity).Scan(&lineID); err != nil {
		return models.CartItem{}, err
	}
	return r.GetByID(ctx, userID, lineID)
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID string, id string, quantity int) (models.CartItem, error) {
	const query = `UPDATE cart_items SET quantity = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`
	cmd, err := r.pool.Exec(ctx, query, userID, id, quantity)
	if err != nil {
		return models.CartItem{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.CartItem{}, ErrCartItemNotFound
	}
	return r.GetByID(ctx, userID, id)
}

func (r *CartRepository) UpdateSelected(ctx context.Context, userID string, id string, selected bool) error {
	const query = `UPDATE cart_items SET selected = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`
	cmd, err := r.pool.Exec(ctx, query, userID, id, selected)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) UpdateAllSelected(ctx context.Context, userID string, selected bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE cart_items SET selected = $2, updated_at = NOW() WHERE user_id = $1`, userID, selected)
	return err
}

func (r *CartRepository) Delete(ctx context.Context, userID string, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *CartRepository) GetByID(ctx context.Context, userID string, id string) (models.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1 AND c.id = $2
	`, cartColumns)
	return scanCartItem(r.pool.QueryRow(ctx, query, userID, id))
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gomall/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, category_id, image_url, status, sales, created_at, updated_at`

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.ImageURL,
		&p.Status,
		&p.Sales,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

type ProductFilter struct {
	CategoryID string
	Keyword    string
	// OnSaleOnly hides OFF_SALE products from the public listings; admin
	// listings pass false.
	OnSaleOnly bool
	Limit      int
	Offset     int
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) (models.ProductPage, error) {
	where := `WHERE ($1 = '' OR category_id = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		AND (NOT $3 OR status = 'ON_SALE')`

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC LIMIT $4 OFFSET $5`, productColumns, where)
	rows, err := r.pool.Query(ctx, query, filter.CategoryID, filter.Keyword, filter.OnSaleOnly, filter.Limit, filter.Offset)
	if err != nil {
		return models.ProductPage{}, err
	}
	defer rows.Close()

	page := models.ProductPage{Products: []models.Product{}}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return models.ProductPage{}, err
		}
		page.Products = append(page.Products, p)
	}
	if err := rows.Err(); err != nil {
		return models.ProductPage{}, err
	}

	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.pool.QueryRow(ctx, countQuery, filter.CategoryID, filter.Keyword, filter.OnSaleOnly).Scan(&page.Total); err != nil {
		return models.ProductPage{}, err
	}
	return page, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) error {
	const query = `
		INSERT INTO products (id, name, description, price, stock, category_id, image_url, status, sales, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL, p.Status,
	)
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	const query = `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category_id = $6, image_url = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL,
	)
	if err != nil {
		return models.Product{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error) {
	const query = `UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return models.Product{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gomall/internal/models"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

const addressColumns = `id, user_id, receiver, phone, province, city, district, detail, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (models.Address, error) {
	var addr models.Address
	if err := row.Scan(
		&addr.ID,
		&addr.UserID,
		&addr.Receiver,
		&addr.Phone,
		&addr.Province,
		&addr.City,
		&addr.District,
		&addr.Detail,
		&addr.IsDefault,
		&addr.CreatedAt,
		&addr.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Address{}, ErrAddressNotFound
		}
		return models.Address{}, err
	}
	return addr, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE user_id = $1 ORDER BY created_at`, addressColumns)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, rows.Err()
}

// Create inserts the address; when it is flagged default, every sibling is
// demoted in the same transaction.
func (r *AddressRepository) Create(ctx context.Context, addr models.Address) (models.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Address{}, err
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, addr.UserID); err != nil {
			return models.Address{}, err
		}
	}

	const query = `
		INSERT INTO addresses (id, user_id, receiver, phone, province, city, district, detail, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query,
		addr.ID, addr.UserID, addr.Receiver, addr.Phone,
		addr.Province, addr.City, addr.District, addr.Detail, addr.IsDefault,
	); err != nil {
		return models.Address{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Address{}, err
	}
	return r.GetByID(ctx, addr.UserID, addr.ID)
}

func (r *AddressRepository) Update(ctx context.Context, addr models.Address) (models.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Address{}, err
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND id <> $2`, addr.UserID, addr.ID); err != nil {
			return models.Address{}, err
		}
	}

	const query = `
		UPDATE addresses
		SET receiver = $3, phone = $4, province = $5, city = $6, district = $7, detail = $8, is_default = $9, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
	`
	cmd, err := tx.Exec(ctx, query,
		addr.UserID, addr.ID, addr.Receiver, addr.Phone,
		addr.Province, addr.City, addr.District, addr.Detail, addr.IsDefault,
	)
	if err != nil {
		return models.Address{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.Address{}, ErrAddressNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Address{}, err
	}
	return r.GetByID(ctx, addr.UserID, addr.ID)
}

func (r *AddressRepository) Delete(ctx context.Context, userID string, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault makes the given address the single default for the user. The
// target is promoted first so a bogus id fails before any sibling is demoted.
func (r *AddressRepository) SetDefault(ctx context.Context, userID string, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAddressNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND id <> $2 AND is_default`, userID, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AddressRepository) GetByID(ctx context.Context, userID string, id string) (models.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE user_id = $1 AND id = $2`, addressColumns)
	return scanAddress(r.pool.QueryRow(ctx, query, userID, id))
}

package merchants

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, merchant Merchant) error {
	const query = `
INSERT INTO merchants (id, shop, access_token, is_active, installed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now(), now())
ON CONFLICT (shop) DO UPDATE SET
  access_token = EXCLUDED.access_token,
  is_active = EXCLUDED.is_active,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		merchant.ID,
		merchant.Shop,
		merchant.AccessToken,
		merchant.IsActive,
	)
	return err
}

func (r *PGRepo) GetByShop(ctx context.Context, shop string) (Merchant, error) {
	const query = `
SELECT id, shop, access_token, is_active, installed_at, created_at, updated_at
FROM merchants
WHERE shop = $1
LIMIT 1`
	var merchant Merchant
	var accessToken sql.NullString
	var installedAt, updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, shop).Scan(
		&merchant.ID,
		&merchant.Shop,
		&accessToken,
		&merchant.IsActive,
		&installedAt,
		&merchant.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Merchant{}, ErrNotFound
		}
		return Merchant{}, err
	}
	merchant.AccessToken = accessToken.String
	if installedAt.Valid {
		merchant.InstalledAt = installedAt.Time
	}
	if updatedAt.Valid {
		merchant.UpdatedAt = updatedAt.Time
	} else {
		merchant.UpdatedAt = time.Now().UTC()
	}
	return merchant, nil
}

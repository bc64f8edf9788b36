package customers

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, customer Customer) error {
	const query = `
INSERT INTO customers (id, shop, email, raw_data, created_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (shop, id) DO UPDATE SET
  email = EXCLUDED.email,
  raw_data = EXCLUDED.raw_data`
	_, err := r.DB.ExecContext(ctx, query,
		customer.ID,
		customer.Shop,
		nullableString(customer.Email),
		nullableJSON(customer.Raw),
	)
	return err
}

func (r *PGRepo) ListForShop(ctx context.Context, shop string) ([]Customer, error) {
	const query = `
SELECT id, shop, email, raw_data, created_at
FROM customers
WHERE shop = $1`
	rows, err := r.DB.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var customer Customer
		var email sql.NullString
		var raw []byte
		if err := rows.Scan(&customer.ID, &customer.Shop, &email, &raw, &customer.CreatedAt); err != nil {
			return nil, err
		}
		customer.Email = email.String
		customer.Raw = raw
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

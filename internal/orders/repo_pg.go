package orders

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, order Order) error {
	const query = `
INSERT INTO orders (id, shop, customer_id, total_price, raw_data, created_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (shop, id) DO UPDATE SET
  customer_id = EXCLUDED.customer_id,
  total_price = EXCLUDED.total_price,
  raw_data = EXCLUDED.raw_data`
	_, err := r.DB.ExecContext(ctx, query,
		order.ID,
		order.Shop,
		nullableInt64(order.CustomerID),
		order.TotalPrice,
		nullableJSON(order.Raw),
	)
	return err
}

func (r *PGRepo) ListForShop(ctx context.Context, shop string) ([]Order, error) {
	const query = `
SELECT id, shop, customer_id, total_price, raw_data, created_at
FROM orders
WHERE shop = $1`
	rows, err := r.DB.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		var customerID sql.NullInt64
		var totalPrice sql.NullFloat64
		var raw []byte
		if err := rows.Scan(&order.ID, &order.Shop, &customerID, &totalPrice, &raw, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.CustomerID = customerID.Int64
		order.TotalPrice = totalPrice.Float64
		order.Raw = raw
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func nullableInt64(value int64) any {
	if value == 0 {
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

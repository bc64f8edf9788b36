package events

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Record(ctx context.Context, event Event) error {
	const query = `
INSERT INTO events (shop, event_type, product_id, visitor_id, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.DB.ExecContext(ctx, query,
		event.Shop,
		event.EventType,
		nullableString(event.ProductID),
		nullableString(event.VisitorID),
		nullableJSON(event.Metadata),
	)
	return err
}

func (r *PGRepo) ListForShop(ctx context.Context, shop string) ([]Event, error) {
	const query = `
SELECT id, shop, event_type, product_id, visitor_id, metadata, created_at
FROM events
WHERE shop = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		var productID, visitorID sql.NullString
		var metadata []byte
		if err := rows.Scan(&event.ID, &event.Shop, &event.EventType, &productID, &visitorID, &metadata, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.ProductID = productID.String
		event.VisitorID = visitorID.String
		event.Metadata = metadata
		out = append(out, event)
	}
	return out, rows.Err()
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

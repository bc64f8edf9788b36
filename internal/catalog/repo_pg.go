package catalog

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, product Product) error {
	const query = `
INSERT INTO products (id, shop, title, product_type, vendor, tags, price, raw_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (shop, id) DO UPDATE SET
  title = EXCLUDED.title,
  product_type = EXCLUDED.product_type,
  vendor = EXCLUDED.vendor,
  tags = EXCLUDED.tags,
  price = EXCLUDED.price,
  raw_data = EXCLUDED.raw_data,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		product.ID,
		product.Shop,
		product.Title,
		product.ProductType,
		product.Vendor,
		product.Tags,
		product.Price,
		nullableJSON(product.Raw),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, shop string, id int64) (Product, error) {
	const query = `
SELECT id, shop, title, product_type, vendor, tags, price, raw_data, created_at, updated_at
FROM products
WHERE shop = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, shop, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return product, nil
}

func (r *PGRepo) ListForShop(ctx context.Context, shop string) ([]Product, error) {
	const query = `
SELECT id, shop, title, product_type, vendor, tags, price, raw_data, created_at, updated_at
FROM products
WHERE shop = $1`
	rows, err := r.DB.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var product Product
	var title, productType, vendor, tags sql.NullString
	var price sql.NullFloat64
	var raw []byte
	err := row.Scan(
		&product.ID,
		&product.Shop,
		&title,
		&productType,
		&vendor,
		&tags,
		&price,
		&raw,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	product.Title = title.String
	product.ProductType = productType.String
	product.Vendor = vendor.String
	product.Tags = tags.String
	product.Price = price.Float64
	product.Raw = raw
	return product, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

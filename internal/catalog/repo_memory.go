package catalog

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	shops map[string]map[int64]Product
	order map[string][]int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		shops: make(map[string]map[int64]Product),
		order: make(map[string][]int64),
	}
}

func (r *MemoryRepo) Upsert(ctx context.Context, product Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.shops[product.Shop]
	if !ok {
		byID = make(map[int64]Product)
		r.shops[product.Shop] = byID
	}
	now := time.Now().UTC()
	existing, seen := byID[product.ID]
	if seen {
		product.CreatedAt = existing.CreatedAt
	} else {
		product.CreatedAt = now
		r.order[product.Shop] = append(r.order[product.Shop], product.ID)
	}
	product.UpdatedAt = now
	byID[product.ID] = product
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, shop string, id int64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.shops[shop][id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return product, nil
}

func (r *MemoryRepo) ListForShop(ctx context.Context, shop string) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.order[shop]
	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, r.shops[shop][id])
	}
	return products, nil
}

package customers

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	shops map[string]map[int64]Customer
	order map[string][]int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		shops: make(map[string]map[int64]Customer),
		order: make(map[string][]int64),
	}
}

func (r *MemoryRepo) Upsert(ctx context.Context, customer Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.shops[customer.Shop]
	if !ok {
		byID = make(map[int64]Customer)
		r.shops[customer.Shop] = byID
	}
	existing, seen := byID[customer.ID]
	if seen {
		customer.CreatedAt = existing.CreatedAt
	} else {
		customer.CreatedAt = time.Now().UTC()
		r.order[customer.Shop] = append(r.order[customer.Shop], customer.ID)
	}
	byID[customer.ID] = customer
	return nil
}

func (r *MemoryRepo) ListForShop(ctx context.Context, shop string) ([]Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.order[shop]
	customers := make([]Customer, 0, len(ids))
	for _, id := range ids {
		customers = append(customers, r.shops[shop][id])
	}
	return customers, nil
}

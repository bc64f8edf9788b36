package orders

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	shops map[string]map[int64]Order
	order map[string][]int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		shops: make(map[string]map[int64]Order),
		order: make(map[string][]int64),
	}
}

func (r *MemoryRepo) Upsert(ctx context.Context, order Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.shops[order.Shop]
	if !ok {
		byID = make(map[int64]Order)
		r.shops[order.Shop] = byID
	}
	existing, seen := byID[order.ID]
	if seen {
		order.CreatedAt = existing.CreatedAt
	} else {
		order.CreatedAt = time.Now().UTC()
		r.order[order.Shop] = append(r.order[order.Shop], order.ID)
	}
	byID[order.ID] = order
	return nil
}

func (r *MemoryRepo) ListForShop(ctx context.Context, shop string) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.order[shop]
	orders := make([]Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, r.shops[shop][id])
	}
	return orders, nil
}

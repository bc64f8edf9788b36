package merchants

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	shops map[string]Merchant
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{shops: make(map[string]Merchant)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, merchant Merchant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.shops[merchant.Shop]
	if ok {
		// reinstall keeps the original identity
		merchant.ID = existing.ID
		merchant.CreatedAt = existing.CreatedAt
		merchant.InstalledAt = existing.InstalledAt
	} else {
		merchant.CreatedAt = now
		merchant.InstalledAt = now
	}
	merchant.UpdatedAt = now
	r.shops[merchant.Shop] = merchant
	return nil
}

func (r *MemoryRepo) GetByShop(ctx context.Context, shop string) (Merchant, error) {
	if err := ctx.Err(); err != nil {
		return Merchant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	merchant, ok := r.shops[shop]
	if !ok {
		return Merchant{}, ErrNotFound
	}
	return merchant, nil
}

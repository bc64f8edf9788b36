package events

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	events map[string][]Event
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{events: make(map[string][]Event)}
}

func (r *MemoryRepo) Record(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.events[event.Shop] = append(r.events[event.Shop], event)
	return nil
}

func (r *MemoryRepo) ListForShop(ctx context.Context, shop string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.events[shop]
	out := make([]Event, len(stored))
	copy(out, stored)
	return out, nil
}

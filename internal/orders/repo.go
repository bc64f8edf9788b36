package orders

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "order not found" }

// Repo is the order record store.
type Repo interface {
	Upsert(ctx context.Context, order Order) error
	ListForShop(ctx context.Context, shop string) ([]Order, error)
}

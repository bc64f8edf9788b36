package customers

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "customer not found" }

// Repo is the customer record store.
type Repo interface {
	Upsert(ctx context.Context, customer Customer) error
	ListForShop(ctx context.Context, shop string) ([]Customer, error)
}

package catalog

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "product not found" }

// Repo is the product record store. Upserts are idempotent keyed writes;
// ListForShop returns every stored product for a shop with no ordering
// guarantee beyond insertion.
type Repo interface {
	Upsert(ctx context.Context, product Product) error
	GetByID(ctx context.Context, shop string, id int64) (Product, error)
	ListForShop(ctx context.Context, shop string) ([]Product, error)
}

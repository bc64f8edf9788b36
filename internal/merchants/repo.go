package merchants

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "merchant not found" }

// Repo persists installed merchants keyed by shop domain.
type Repo interface {
	Upsert(ctx context.Context, merchant Merchant) error
	GetByShop(ctx context.Context, shop string) (Merchant, error)
}

package events

import "context"

// Repo is the event record store. Events are append-only.
type Repo interface {
	Record(ctx context.Context, event Event) error
	ListForShop(ctx context.Context, shop string) ([]Event, error)
}

package events

import (
	"encoding/json"
	"time"
)

// Known event types.
const (
	TypeImpression = "impression"
	TypeClick      = "click"
	TypeAddToCart  = "add_to_cart"
	TypePurchase   = "purchase"
)

// Event is one tracked widget interaction.
type Event struct {
	ID        int64
	Shop      string
	EventType string
	ProductID string
	VisitorID string
	Metadata  json.RawMessage
	CreatedAt time.Time
}

// ValidType reports whether t is a known event type.
func ValidType(t string) bool {
	switch t {
	case TypeImpression, TypeClick, TypeAddToCart, TypePurchase:
		return true
	default:
		return false
	}
}

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"smartrecommend-backend/internal/events"
)

// Usage-based pricing per billable event.
const (
	ClickRate     = 0.01
	AddToCartRate = 0.05
	PurchaseShare = 0.05
)

// Period bounds a billing window. Zero times mean unbounded.
type Period struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// Counts holds billable event counts for the period.
type Counts struct {
	Clicks     int `json:"clicks"`
	AddToCarts int `json:"addToCarts"`
	Purchases  int `json:"purchases"`
}

// Charges holds the dollar amounts per billable concern.
type Charges struct {
	Clicks     float64 `json:"clicks"`
	AddToCarts float64 `json:"addToCarts"`
	Purchases  float64 `json:"purchases"`
	Total      float64 `json:"total"`
}

// Bill is the usage charge summary for one shop and period.
type Bill struct {
	Shop     string  `json:"shop"`
	Period   Period  `json:"period"`
	Events   Counts  `json:"events"`
	Charges  Charges `json:"charges"`
	Currency string  `json:"currency"`
}

// Service computes usage-based bills from recorded events. Clicks and
// add-to-carts bill at a flat rate, purchases bill a revenue share of
// the amount carried in the event metadata.
type Service struct {
	Repo events.Repo
}

// NewService constructs a billing Service.
func NewService(repo events.Repo) *Service {
	return &Service{Repo: repo}
}

type purchaseMetadata struct {
	Amount float64 `json:"amount"`
}

// Calculate totals the shop's billable events within the period. Amounts
// round to cents.
func (s *Service) Calculate(ctx context.Context, shop string, period Period) (Bill, error) {
	all, err := s.Repo.ListForShop(ctx, shop)
	if err != nil {
		return Bill{}, fmt.Errorf("list events: %w", err)
	}

	bill := Bill{Shop: shop, Period: period, Currency: "USD"}
	var purchaseVolume float64
	for _, event := range all {
		if !period.Start.IsZero() && event.CreatedAt.Before(period.Start) {
			continue
		}
		if !period.End.IsZero() && event.CreatedAt.After(period.End) {
			continue
		}
		switch event.EventType {
		case events.TypeClick:
			bill.Events.Clicks++
		case events.TypeAddToCart:
			bill.Events.AddToCarts++
		case events.TypePurchase:
			bill.Events.Purchases++
			purchaseVolume += purchaseAmount(event.Metadata)
		}
	}

	bill.Charges.Clicks = roundCents(float64(bill.Events.Clicks) * ClickRate)
	bill.Charges.AddToCarts = roundCents(float64(bill.Events.AddToCarts) * AddToCartRate)
	bill.Charges.Purchases = roundCents(purchaseVolume * PurchaseShare)
	bill.Charges.Total = roundCents(bill.Charges.Clicks + bill.Charges.AddToCarts + bill.Charges.Purchases)
	return bill, nil
}

func purchaseAmount(metadata json.RawMessage) float64 {
	if len(metadata) == 0 {
		return 0
	}
	var parsed purchaseMetadata
	if err := json.Unmarshal(metadata, &parsed); err != nil {
		return 0
	}
	if parsed.Amount < 0 {
		return 0
	}
	return parsed.Amount
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

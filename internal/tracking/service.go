package tracking

import (
	"context"
	"fmt"
	"time"

	"smartrecommend-backend/internal/events"
	"smartrecommend-backend/internal/shared/metrics"
	"smartrecommend-backend/internal/shared/telemetry"
)

// ErrUnknownEventType is returned when an event type outside the known
// set is tracked.
var ErrUnknownEventType = errUnknownEventType{}

type errUnknownEventType struct{}

func (errUnknownEventType) Error() string { return "unknown event type" }

// EventInput carries the optional fields of a tracked event.
type EventInput struct {
	ProductID string
	VisitorID string
	Metadata  []byte
}

// Stats summarizes tracked events for a shop.
type Stats struct {
	Total            int            `json:"total"`
	ByType           map[string]int `json:"byType"`
	ClickThroughRate string         `json:"clickThroughRate"`
	ConversionRate   string         `json:"conversionRate"`
}

// StatsOptions filters the stats window. Zero times mean unbounded.
type StatsOptions struct {
	Start     time.Time
	End       time.Time
	EventType string
}

// Service records widget interaction events and computes per-shop stats.
type Service struct {
	Repo events.Repo
}

// NewService constructs a tracking Service.
func NewService(repo events.Repo) *Service {
	return &Service{Repo: repo}
}

// Track validates and records one event.
func (s *Service) Track(ctx context.Context, shop, eventType string, in EventInput) (events.Event, error) {
	if !events.ValidType(eventType) {
		return events.Event{}, ErrUnknownEventType
	}

	event := events.Event{
		Shop:      shop,
		EventType: eventType,
		ProductID: in.ProductID,
		VisitorID: in.VisitorID,
		Metadata:  in.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Record(ctx, event); err != nil {
		return events.Event{}, fmt.Errorf("record event: %w", err)
	}

	metrics.IncEventsTracked()
	telemetry.Info("tracking.event", map[string]any{
		"shop":       shop,
		"event_type": eventType,
		"product_id": in.ProductID,
	})
	return event, nil
}

// Stats aggregates the shop's events within the given window. The
// click-through rate is clicks over impressions and the conversion rate
// is purchases over clicks, both formatted with two decimals.
func (s *Service) Stats(ctx context.Context, shop string, opts StatsOptions) (Stats, error) {
	all, err := s.Repo.ListForShop(ctx, shop)
	if err != nil {
		return Stats{}, fmt.Errorf("list events: %w", err)
	}

	stats := Stats{ByType: map[string]int{}}
	for _, event := range all {
		if !opts.Start.IsZero() && event.CreatedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && event.CreatedAt.After(opts.End) {
			continue
		}
		if opts.EventType != "" && event.EventType != opts.EventType {
			continue
		}
		stats.Total++
		stats.ByType[event.EventType]++
	}

	stats.ClickThroughRate = ratePercent(stats.ByType[events.TypeClick], stats.ByType[events.TypeImpression])
	stats.ConversionRate = ratePercent(stats.ByType[events.TypePurchase], stats.ByType[events.TypeClick])
	return stats, nil
}

func ratePercent(numerator, denominator int) string {
	if denominator == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(numerator)/float64(denominator)*100)
}

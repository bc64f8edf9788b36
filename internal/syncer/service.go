package syncer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"smartrecommend-backend/internal/catalog"
	"smartrecommend-backend/internal/customers"
	"smartrecommend-backend/internal/orders"
	"smartrecommend-backend/internal/recommend"
	"smartrecommend-backend/internal/shared/metrics"
	"smartrecommend-backend/internal/shared/telemetry"
	"smartrecommend-backend/internal/shopify"
)

// ErrSyncInProgress signals that a full sync for the shop is already running.
var ErrSyncInProgress = errSyncInProgress{}

type errSyncInProgress struct{}

func (errSyncInProgress) Error() string { return "sync already in progress" }

// DefaultPageSize caps one fetch page against the platform.
const DefaultPageSize = 250

// PlatformClient is the slice of the platform API the orchestrator consumes.
type PlatformClient interface {
	GetProducts(ctx context.Context, limit int) ([]shopify.Product, error)
	GetOrders(ctx context.Context, limit int) ([]shopify.Order, error)
	GetOrdersSince(ctx context.Context, limit int, sinceID int64) ([]shopify.Order, error)
	GetCustomers(ctx context.Context, limit int) ([]shopify.Customer, error)
}

// Summary reports record counts from one full sync.
type Summary struct {
	Products  int `json:"products"`
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
}

// IncrementalSummary reports one incremental orders sync. LastOrderID is the
// new platform cursor; it equals the input cursor when no orders came back.
type IncrementalSummary struct {
	Orders      int   `json:"orders"`
	LastOrderID int64 `json:"lastOrderId"`
}

// Service pulls catalog, order, and customer data from the platform,
// persists it, and retrains the engine from the stored history. Full syncs
// are single-flight per shop.
type Service struct {
	Products  catalog.Repo
	Orders    orders.Repo
	Customers customers.Repo
	Engines   *recommend.Registry
	PageSize  int

	// NewClient builds a platform client for a shop credential. Swappable
	// in tests.
	NewClient func(shop, accessToken string) PlatformClient

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService constructs a Service with the default page size.
func NewService(products catalog.Repo, orderRepo orders.Repo, customerRepo customers.Repo, engines *recommend.Registry, newClient func(shop, accessToken string) PlatformClient) *Service {
	return &Service{
		Products:  products,
		Orders:    orderRepo,
		Customers: customerRepo,
		Engines:   engines,
		PageSize:  DefaultPageSize,
		NewClient: newClient,
		inFlight:  make(map[string]bool),
	}
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

// acquire marks the shop as syncing. Reports false when a sync is already
// running for it.
func (s *Service) acquire(shop string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]bool)
	}
	if s.inFlight[shop] {
		return false
	}
	s.inFlight[shop] = true
	return true
}

func (s *Service) release(shop string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, shop)
}

// SyncAll fetches products, orders, and customers for the shop, upserts them
// into the record store, then retrains the engine from the store's full
// history (not just the freshly fetched page). At most one full sync runs
// per shop; a concurrent call fails fast with ErrSyncInProgress and performs
// no writes. The in-flight mark is always cleared, success or failure.
func (s *Service) SyncAll(ctx context.Context, shop, accessToken string) (Summary, error) {
	if !s.acquire(shop) {
		metrics.IncSyncRejected()
		telemetry.Warn("sync.rejected", map[string]any{"shop": shop})
		return Summary{}, ErrSyncInProgress
	}
	defer s.release(shop)

	metrics.IncSyncStarted()
	start := time.Now()
	telemetry.Info("sync.start", map[string]any{"shop": shop})

	summary, err := s.syncAll(ctx, shop, accessToken)
	metrics.ObserveSyncDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncSyncFailed()
		telemetry.Error("sync.failed", map[string]any{"shop": shop, "error": err.Error()})
		return Summary{}, err
	}

	metrics.IncSyncCompleted()
	telemetry.Info("sync.complete", map[string]any{
		"shop":      shop,
		"products":  summary.Products,
		"orders":    summary.Orders,
		"customers": summary.Customers,
	})
	return summary, nil
}

func (s *Service) syncAll(ctx context.Context, shop, accessToken string) (Summary, error) {
	client := s.NewClient(shop, accessToken)
	limit := s.pageSize()

	products, err := client.GetProducts(ctx, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch products: %w", err)
	}
	for _, p := range products {
		if err := s.Products.Upsert(ctx, productRecord(shop, p)); err != nil {
			return Summary{}, fmt.Errorf("store product %d: %w", p.ID, err)
		}
	}

	orderPage, err := client.GetOrders(ctx, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch orders: %w", err)
	}
	for _, o := range orderPage {
		if err := s.Orders.Upsert(ctx, orderRecord(shop, o)); err != nil {
			return Summary{}, fmt.Errorf("store order %d: %w", o.ID, err)
		}
	}

	customerPage, err := client.GetCustomers(ctx, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch customers: %w", err)
	}
	for _, c := range customerPage {
		if err := s.Customers.Upsert(ctx, customerRecord(shop, c)); err != nil {
			return Summary{}, fmt.Errorf("store customer %d: %w", c.ID, err)
		}
	}

	if err := s.retrain(ctx, shop); err != nil {
		return Summary{}, err
	}

	return Summary{
		Products:  len(products),
		Orders:    len(orderPage),
		Customers: len(customerPage),
	}, nil
}

// retrain reloads the shop's full stored history and republishes the
// engine's snapshot.
func (s *Service) retrain(ctx context.Context, shop string) error {
	stored, err := s.Products.ListForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("load products for training: %w", err)
	}
	storedOrders, err := s.Orders.ListForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("load orders for training: %w", err)
	}
	storedCustomers, err := s.Customers.ListForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("load customers for training: %w", err)
	}

	sourceProducts := make([]recommend.SourceProduct, 0, len(stored))
	for _, p := range stored {
		sourceProducts = append(sourceProducts, p.TrainingSource())
	}
	sourceOrders := make([]recommend.SourceOrder, 0, len(storedOrders))
	for _, o := range storedOrders {
		sourceOrders = append(sourceOrders, o.TrainingSource())
	}
	sourceCustomers := make([]recommend.SourceCustomer, 0, len(storedCustomers))
	for _, c := range storedCustomers {
		sourceCustomers = append(sourceCustomers, c.TrainingSource())
	}

	s.Engines.For(shop).Train(sourceProducts, sourceOrders, sourceCustomers)
	return nil
}

// SyncOrdersIncremental fetches orders after the given platform cursor and
// upserts them without retraining. It does not take the full-sync in-flight
// mark, so it may interleave with a running full sync.
func (s *Service) SyncOrdersIncremental(ctx context.Context, shop, accessToken string, sinceID int64) (IncrementalSummary, error) {
	telemetry.Info("sync.incremental.start", map[string]any{"shop": shop, "since_id": sinceID})

	client := s.NewClient(shop, accessToken)
	fetched, err := client.GetOrdersSince(ctx, s.pageSize(), sinceID)
	if err != nil {
		telemetry.Error("sync.incremental.failed", map[string]any{"shop": shop, "error": err.Error()})
		return IncrementalSummary{}, fmt.Errorf("fetch orders since %d: %w", sinceID, err)
	}

	for _, o := range fetched {
		if err := s.Orders.Upsert(ctx, orderRecord(shop, o)); err != nil {
			telemetry.Error("sync.incremental.failed", map[string]any{"shop": shop, "error": err.Error()})
			return IncrementalSummary{}, fmt.Errorf("store order %d: %w", o.ID, err)
		}
	}

	last := sinceID
	if len(fetched) > 0 {
		last = fetched[len(fetched)-1].ID
	}
	telemetry.Info("sync.incremental.complete", map[string]any{"shop": shop, "orders": len(fetched), "last_order_id": last})
	return IncrementalSummary{Orders: len(fetched), LastOrderID: last}, nil
}

func productRecord(shop string, p shopify.Product) catalog.Product {
	return catalog.Product{
		ID:          p.ID,
		Shop:        shop,
		Title:       p.Title,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		Price:       extractPrice(p),
		Raw:         p.Raw,
	}
}

// extractPrice mirrors the engine's coercion rules: first variant price,
// then top-level, defaulting to 0 on missing or malformed values.
func extractPrice(p shopify.Product) float64 {
	raw := p.Price
	if len(p.Variants) > 0 && strings.TrimSpace(p.Variants[0].Price) != "" {
		raw = p.Variants[0].Price
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

func orderRecord(shop string, o shopify.Order) orders.Order {
	total, err := strconv.ParseFloat(strings.TrimSpace(o.TotalPrice), 64)
	if err != nil || total < 0 {
		total = 0
	}
	return orders.Order{
		ID:         o.ID,
		Shop:       shop,
		CustomerID: o.CustomerRef(),
		TotalPrice: total,
		Raw:        o.Raw,
	}
}

func customerRecord(shop string, c shopify.Customer) customers.Customer {
	return customers.Customer{
		ID:    c.ID,
		Shop:  shop,
		Email: c.Email,
		Raw:   c.Raw,
	}
}

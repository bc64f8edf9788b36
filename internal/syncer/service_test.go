package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"smartrecommend-backend/internal/catalog"
	"smartrecommend-backend/internal/customers"
	"smartrecommend-backend/internal/orders"
	"smartrecommend-backend/internal/recommend"
	"smartrecommend-backend/internal/shopify"
)

type fakeClient struct {
	products     []shopify.Product
	orders       []shopify.Order
	customers    []shopify.Customer
	productsErr  error
	blockProduct chan struct{}

	mu        sync.Mutex
	sinceSeen []int64
}

func (f *fakeClient) GetProducts(ctx context.Context, limit int) ([]shopify.Product, error) {
	if f.blockProduct != nil {
		<-f.blockProduct
	}
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeClient) GetOrders(ctx context.Context, limit int) ([]shopify.Order, error) {
	return f.orders, nil
}

func (f *fakeClient) GetOrdersSince(ctx context.Context, limit int, sinceID int64) ([]shopify.Order, error) {
	f.mu.Lock()
	f.sinceSeen = append(f.sinceSeen, sinceID)
	f.mu.Unlock()
	return f.orders, nil
}

func (f *fakeClient) GetCustomers(ctx context.Context, limit int) ([]shopify.Customer, error) {
	return f.customers, nil
}

func newTestService(client *fakeClient) (*Service, *catalog.MemoryRepo, *orders.MemoryRepo, *recommend.Registry) {
	productRepo := catalog.NewMemoryRepo()
	orderRepo := orders.NewMemoryRepo()
	customerRepo := customers.NewMemoryRepo()
	engines := recommend.NewRegistry()
	svc := NewService(productRepo, orderRepo, customerRepo, engines, func(shop, token string) PlatformClient {
		return client
	})
	return svc, productRepo, orderRepo, engines
}

func waitForInFlight(t *testing.T, svc *Service, shop string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		svc.mu.Lock()
		busy := svc.inFlight[shop]
		svc.mu.Unlock()
		if busy {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("sync for %s never became in-flight", shop)
}

func testOrder(id int64, productID int64, qty int) shopify.Order {
	raw, _ := json.Marshal(map[string]any{
		"id": id,
		"line_items": []map[string]any{
			{"product_id": productID, "quantity": qty},
		},
	})
	return shopify.Order{ID: id, TotalPrice: "19.99", Raw: raw}
}

func TestSyncAllStoresAndTrains(t *testing.T) {
	client := &fakeClient{
		products: []shopify.Product{
			{ID: 1, Title: "Runner", ProductType: "Shoes", Vendor: "Acme", Tags: "red", Variants: []shopify.Variant{{Price: "50"}}, Raw: json.RawMessage(`{"id":1}`)},
			{ID: 2, Title: "Walker", ProductType: "Shoes", Vendor: "Acme", Tags: "red", Variants: []shopify.Variant{{Price: "52"}}, Raw: json.RawMessage(`{"id":2}`)},
		},
		orders:    []shopify.Order{testOrder(100, 1, 3)},
		customers: []shopify.Customer{{ID: 7, Email: "c@example.com"}},
	}
	svc, _, _, engines := newTestService(client)

	summary, err := svc.SyncAll(context.Background(), "shop-a", "token")
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	if summary.Products != 2 || summary.Orders != 1 || summary.Customers != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !engines.For("shop-a").Trained() {
		t.Fatalf("expected engine to be trained")
	}

	recs := engines.For("shop-a").GetRecommendations(recommend.Options{Strategy: recommend.StrategyPopularity})
	if len(recs) != 1 || recs[0].ItemID != "1" || recs[0].Score != 1.0 {
		t.Fatalf("unexpected popularity results %+v", recs)
	}

	recs = engines.For("shop-a").GetRecommendations(recommend.Options{ProductID: "1", Strategy: recommend.StrategyContent})
	if len(recs) != 1 || recs[0].ItemID != "2" {
		t.Fatalf("unexpected content results %+v", recs)
	}
}

func TestSyncAllTrainsFromStoredHistoryNotPage(t *testing.T) {
	client := &fakeClient{
		products: []shopify.Product{
			{ID: 2, ProductType: "Shoes", Vendor: "Acme", Tags: "red", Variants: []shopify.Variant{{Price: "52"}}},
		},
	}
	svc, productRepo, _, engines := newTestService(client)

	// previously synced product not present in the fresh page
	if err := productRepo.Upsert(context.Background(), catalog.Product{
		ID: 1, Shop: "shop-a", ProductType: "Shoes", Vendor: "Acme", Tags: "red", Price: 50,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.SyncAll(context.Background(), "shop-a", "token"); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	recs := engines.For("shop-a").GetRecommendations(recommend.Options{ProductID: "1", Strategy: recommend.StrategyContent})
	if len(recs) != 1 || recs[0].ItemID != "2" {
		t.Fatalf("expected training over store union, got %+v", recs)
	}
}

func TestSyncAllSingleFlightPerShop(t *testing.T) {
	client := &fakeClient{blockProduct: make(chan struct{})}
	svc, productRepo, _, _ := newTestService(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.SyncAll(context.Background(), "shop-a", "token")
	}()

	// wait until the first sync holds the in-flight mark
	waitForInFlight(t, svc, "shop-a")

	_, err := svc.SyncAll(context.Background(), "shop-a", "token")
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	if products, _ := productRepo.ListForShop(context.Background(), "shop-a"); len(products) != 0 {
		t.Fatalf("rejected sync must not write, found %d products", len(products))
	}

	close(client.blockProduct)
	wg.Wait()

	// mark released, a new sync is accepted
	client.blockProduct = nil
	if _, err := svc.SyncAll(context.Background(), "shop-a", "token"); err != nil {
		t.Fatalf("expected sync to succeed after release: %v", err)
	}
}

func TestSyncAllDifferentShopsDoNotShareGate(t *testing.T) {
	client := &fakeClient{blockProduct: make(chan struct{})}
	svc, _, _, _ := newTestService(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.SyncAll(context.Background(), "shop-a", "token")
	}()
	waitForInFlight(t, svc, "shop-a")

	if !svc.acquire("shop-b") {
		t.Fatalf("a sync for shop-a must not block shop-b")
	}
	svc.release("shop-b")

	close(client.blockProduct)
	wg.Wait()
}

func TestSyncAllFailureReleasesGate(t *testing.T) {
	client := &fakeClient{productsErr: errors.New("boom")}
	svc, _, _, engines := newTestService(client)

	_, err := svc.SyncAll(context.Background(), "shop-a", "token")
	if err == nil || errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if engines.For("shop-a").Trained() {
		t.Fatalf("failed sync must not train the engine")
	}

	// gate is free again
	client.productsErr = nil
	if _, err := svc.SyncAll(context.Background(), "shop-a", "token"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
}

func TestSyncOrdersIncrementalReportsCursor(t *testing.T) {
	client := &fakeClient{
		orders: []shopify.Order{testOrder(120, 1, 1), testOrder(130, 1, 1), testOrder(150, 2, 1)},
	}
	svc, _, orderRepo, engines := newTestService(client)

	summary, err := svc.SyncOrdersIncremental(context.Background(), "shop-a", "token", 100)
	if err != nil {
		t.Fatalf("SyncOrdersIncremental: %v", err)
	}
	if summary.Orders != 3 || summary.LastOrderID != 150 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if client.sinceSeen[0] != 100 {
		t.Fatalf("expected cursor 100 passed to platform, got %d", client.sinceSeen[0])
	}
	if stored, _ := orderRepo.ListForShop(context.Background(), "shop-a"); len(stored) != 3 {
		t.Fatalf("expected 3 stored orders, got %d", len(stored))
	}
	if engines.For("shop-a").Trained() {
		t.Fatalf("incremental sync must not retrain")
	}
}

func TestSyncOrdersIncrementalEmptyKeepsCursor(t *testing.T) {
	client := &fakeClient{}
	svc, _, _, _ := newTestService(client)

	summary, err := svc.SyncOrdersIncremental(context.Background(), "shop-a", "token", 100)
	if err != nil {
		t.Fatalf("SyncOrdersIncremental: %v", err)
	}
	if summary.Orders != 0 || summary.LastOrderID != 100 {
		t.Fatalf("expected unchanged cursor, got %+v", summary)
	}
}

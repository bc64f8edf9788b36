package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/merchants"
	"smartrecommend-backend/internal/shopify"
)

func newHandlerRouter(t *testing.T, client *fakeClient, installed ...string) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	merchantRepo := merchants.NewMemoryRepo()
	for _, shop := range installed {
		err := merchantRepo.Upsert(context.Background(), merchants.Merchant{
			ID:          "m-" + shop,
			Shop:        shop,
			AccessToken: "token-" + shop,
			IsActive:    true,
		})
		if err != nil {
			t.Fatalf("seed merchant: %v", err)
		}
	}

	svc, _, _, _ := newTestService(client)
	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(svc, merchantRepo).RegisterRoutes(api)
	return router, svc
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSyncRequiresShop(t *testing.T) {
	router, _ := newHandlerRouter(t, &fakeClient{})

	resp := postJSON(router, "/api/v1/sync", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSyncUnknownShopNotFound(t *testing.T) {
	router, _ := newHandlerRouter(t, &fakeClient{})

	resp := postJSON(router, "/api/v1/sync", `{"shop":"ghost.myshopify.com"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestSyncInstalledShopOK(t *testing.T) {
	client := &fakeClient{
		products: []shopify.Product{
			{ID: 1, Title: "Runner", Variants: []shopify.Variant{{Price: "50"}}, Raw: json.RawMessage(`{"id":1}`)},
		},
		orders: []shopify.Order{testOrder(100, 1, 2)},
	}
	router, _ := newHandlerRouter(t, client, "shop-a.myshopify.com")

	resp := postJSON(router, "/api/v1/sync", `{"shop":"shop-a.myshopify.com"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Products int `json:"products"`
		Orders   int `json:"orders"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Products != 1 || body.Orders != 1 {
		t.Fatalf("unexpected summary: %+v", body)
	}
}

func TestSyncConflictWhileRunning(t *testing.T) {
	client := &fakeClient{blockProduct: make(chan struct{})}
	router, svc := newHandlerRouter(t, client, "shop-a.myshopify.com")

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- postJSON(router, "/api/v1/sync", `{"shop":"shop-a.myshopify.com"}`)
	}()
	waitForInFlight(t, svc, "shop-a.myshopify.com")

	resp := postJSON(router, "/api/v1/sync", `{"shop":"shop-a.myshopify.com"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	close(client.blockProduct)
	select {
	case first := <-done:
		if first.Code != http.StatusOK {
			t.Fatalf("expected first sync 200, got %d", first.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first sync never finished")
	}
}

func TestSyncOrdersIncrementalOK(t *testing.T) {
	client := &fakeClient{orders: []shopify.Order{testOrder(150, 1, 1)}}
	router, _ := newHandlerRouter(t, client, "shop-a.myshopify.com")

	resp := postJSON(router, "/api/v1/sync/orders", `{"shop":"shop-a.myshopify.com","since_id":100}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Orders      int   `json:"orders"`
		LastOrderID int64 `json:"last_order_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Orders != 1 || body.LastOrderID != 150 {
		t.Fatalf("unexpected summary: %+v", body)
	}

	client.mu.Lock()
	seen := append([]int64(nil), client.sinceSeen...)
	client.mu.Unlock()
	if len(seen) != 1 || seen[0] != 100 {
		t.Fatalf("expected since_id 100 passed through, got %v", seen)
	}
}

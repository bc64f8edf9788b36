package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client talks to one shop's admin REST API.
type Client struct {
	shop        string
	accessToken string
	apiVersion  string
	baseURL     string
	httpClient  *http.Client
}

// NewClient constructs a Client for the given shop and access token.
func NewClient(shop, accessToken, apiVersion string) *Client {
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = "2024-01"
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("SHOPIFY_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		shop:        shop,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		baseURL:     "https://" + shop,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBaseURL overrides the shop base URL. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

type apiError struct {
	Errors any `json:"errors"`
}

// Request performs a GET against an admin API path and decodes the body
// into out.
func (c *Client) Request(ctx context.Context, path string, out any) error {
	url := fmt.Sprintf("%s/admin/api/%s%s", c.baseURL, c.apiVersion, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("read platform response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Errors != nil {
			return fmt.Errorf("platform status %d: %v", resp.StatusCode, apiErr.Errors)
		}
		return fmt.Errorf("platform status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode platform response: %w", err)
	}
	return nil
}

// GetProducts fetches one page of products, at most limit records.
func (c *Client) GetProducts(ctx context.Context, limit int) ([]Product, error) {
	var page struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := c.Request(ctx, fmt.Sprintf("/products.json?limit=%d", limit), &page); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(page.Products))
	for _, raw := range page.Products {
		var product Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		product.Raw = raw
		products = append(products, product)
	}
	return products, nil
}

// GetOrders fetches one page of orders of any status, at most limit records.
func (c *Client) GetOrders(ctx context.Context, limit int) ([]Order, error) {
	return c.fetchOrders(ctx, fmt.Sprintf("/orders.json?limit=%d&status=any", limit))
}

// GetOrdersSince fetches orders created after the given platform cursor.
func (c *Client) GetOrdersSince(ctx context.Context, limit int, sinceID int64) ([]Order, error) {
	path := fmt.Sprintf("/orders.json?limit=%d&status=any", limit)
	if sinceID > 0 {
		path += fmt.Sprintf("&since_id=%d", sinceID)
	}
	return c.fetchOrders(ctx, path)
}

func (c *Client) fetchOrders(ctx context.Context, path string) ([]Order, error) {
	var page struct {
		Orders []json.RawMessage `json:"orders"`
	}
	if err := c.Request(ctx, path, &page); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(page.Orders))
	for _, raw := range page.Orders {
		var order Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		order.Raw = raw
		orders = append(orders, order)
	}
	return orders, nil
}

// GetCustomers fetches one page of customers, at most limit records.
func (c *Client) GetCustomers(ctx context.Context, limit int) ([]Customer, error) {
	var page struct {
		Customers []json.RawMessage `json:"customers"`
	}
	if err := c.Request(ctx, fmt.Sprintf("/customers.json?limit=%d", limit), &page); err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(page.Customers))
	for _, raw := range page.Customers {
		var customer Customer
		if err := json.Unmarshal(raw, &customer); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		customer.Raw = raw
		customers = append(customers, customer)
	}
	return customers, nil
}

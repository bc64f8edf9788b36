package shopify

import "encoding/json"

// Product is a raw product payload. Raw holds the original JSON so the
// record store can keep the full document.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	ProductType string          `json:"product_type"`
	Vendor      string          `json:"vendor"`
	Tags        string          `json:"tags"`
	Price       string          `json:"price"`
	Variants    []Variant       `json:"variants"`
	Raw         json.RawMessage `json:"-"`
}

// Variant carries the per-variant price.
type Variant struct {
	Price string `json:"price"`
}

// LineItem is one purchased line of an order payload.
type LineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Order is a raw order payload.
type Order struct {
	ID         int64           `json:"id"`
	Customer   *Customer       `json:"customer"`
	CustomerID int64           `json:"customer_id"`
	TotalPrice string          `json:"total_price"`
	LineItems  []LineItem      `json:"line_items"`
	Raw        json.RawMessage `json:"-"`
}

// CustomerRef returns the customer id from either the nested customer
// object or the flat field, 0 when absent.
func (o Order) CustomerRef() int64 {
	if o.Customer != nil && o.Customer.ID != 0 {
		return o.Customer.ID
	}
	return o.CustomerID
}

// Customer is a raw customer payload.
type Customer struct {
	ID    int64           `json:"id"`
	Email string          `json:"email"`
	Raw   json.RawMessage `json:"-"`
}

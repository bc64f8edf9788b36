package orders

import (
	"encoding/json"
	"strconv"
	"time"

	"smartrecommend-backend/internal/recommend"
)

// Order is a stored order record, keyed by (shop, id). Only the aggregate
// columns are extracted; line items live in Raw and are parsed on demand
// for training.
type Order struct {
	ID         int64
	Shop       string
	CustomerID int64
	TotalPrice float64
	Raw        json.RawMessage
	CreatedAt  time.Time
}

type rawLineItem struct {
	ProductID json.Number `json:"product_id"`
	Quantity  int         `json:"quantity"`
}

type rawOrder struct {
	LineItems []rawLineItem `json:"line_items"`
}

// TrainingSource converts a stored order into the engine's raw input shape.
// A missing or malformed payload yields an order with no line items.
func (o Order) TrainingSource() recommend.SourceOrder {
	src := recommend.SourceOrder{ID: strconv.FormatInt(o.ID, 10)}
	if len(o.Raw) == 0 {
		return src
	}
	var parsed rawOrder
	if err := json.Unmarshal(o.Raw, &parsed); err != nil {
		return src
	}
	src.LineItems = make([]recommend.SourceLineItem, 0, len(parsed.LineItems))
	for _, line := range parsed.LineItems {
		src.LineItems = append(src.LineItems, recommend.SourceLineItem{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
		})
	}
	return src
}

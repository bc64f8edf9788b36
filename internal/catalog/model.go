package catalog

import (
	"encoding/json"
	"strconv"
	"time"

	"smartrecommend-backend/internal/recommend"
)

// Product is a stored catalog record, keyed by (shop, id). The scoring
// columns are extracted at upsert time; Raw keeps the full platform payload.
type Product struct {
	ID          int64
	Shop        string
	Title       string
	ProductType string
	Vendor      string
	Tags        string
	Price       float64
	Raw         json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TrainingSource converts a stored product into the engine's raw input shape.
func (p Product) TrainingSource() recommend.SourceProduct {
	return recommend.SourceProduct{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
	}
}

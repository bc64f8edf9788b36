package recommend

// Strategy identifies a scoring algorithm.
type Strategy string

const (
	StrategyPopularity    Strategy = "popularity"
	StrategyContent       Strategy = "content"
	StrategyCollaborative Strategy = "collaborative"
	StrategyHybrid        Strategy = "hybrid"
)

// ParseStrategy maps a raw strategy name to a known Strategy.
// Unknown or empty values fall back to hybrid.
func ParseStrategy(raw string) Strategy {
	switch Strategy(raw) {
	case StrategyPopularity, StrategyContent, StrategyCollaborative, StrategyHybrid:
		return Strategy(raw)
	default:
		return StrategyHybrid
	}
}

// DefaultLimit is the result count when the caller does not specify one.
const DefaultLimit = 10

// Item is a normalized catalog product inside a training snapshot.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Tags     []string `json:"tags"`
	Price    float64  `json:"price"`
}

// SourceProduct is a raw product record as fetched from the platform or
// read back from the record store.
type SourceProduct struct {
	ID          string
	Title       string
	ProductType string
	Vendor      string
	// Tags may be a []string or a comma-separated string depending on the
	// source; the record store persists the joined form.
	Tags     any
	Price    string
	Variants []SourceVariant
}

// SourceVariant carries the per-variant price of a raw product.
type SourceVariant struct {
	Price string
}

// SourceOrder is a raw order reduced to what scoring needs.
type SourceOrder struct {
	ID        string
	LineItems []SourceLineItem
}

// SourceLineItem is one purchased line of an order.
type SourceLineItem struct {
	ProductID string
	Quantity  int
}

// SourceCustomer is a raw customer record. Loaded for future collaborative
// scoring; it does not affect scoring output today.
type SourceCustomer struct {
	ID    string
	Email string
}

// Recommendation is one scored result.
type Recommendation struct {
	ItemID   string   `json:"itemId"`
	Score    float64  `json:"score"`
	Strategy Strategy `json:"strategy"`
	Reason   string   `json:"reason"`
	Item     *Item    `json:"product,omitempty"`
}

// Options controls a single recommendation request.
type Options struct {
	ProductID    string
	Strategy     Strategy
	Limit        int
	ExcludeItems []string
}

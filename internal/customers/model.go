package customers

import (
	"encoding/json"
	"strconv"
	"time"

	"smartrecommend-backend/internal/recommend"
)

// Customer is a stored customer record, keyed by (shop, id). Customers are
// loaded for future collaborative scoring; they do not influence today's
// strategies.
type Customer struct {
	ID        int64
	Shop      string
	Email     string
	Raw       json.RawMessage
	CreatedAt time.Time
}

// TrainingSource converts a stored customer into the engine's raw input shape.
func (c Customer) TrainingSource() recommend.SourceCustomer {
	return recommend.SourceCustomer{
		ID:    strconv.FormatInt(c.ID, 10),
		Email: c.Email,
	}
}

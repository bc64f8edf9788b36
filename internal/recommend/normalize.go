package recommend

import (
	"strconv"
	"strings"
)

// NormalizeProduct converts a raw product into the engine's Item shape.
// Pure: category and brand are lower-cased, tags are parsed and cleaned,
// and the price is coerced to a non-negative value (0 on parse failure).
func NormalizeProduct(p SourceProduct) Item {
	return Item{
		ID:       p.ID,
		Title:    p.Title,
		Category: strings.ToLower(p.ProductType),
		Brand:    strings.ToLower(p.Vendor),
		Tags:     ParseTags(p.Tags),
		Price:    sourcePrice(p),
	}
}

// ParseTags accepts either a slice of strings or a single comma-separated
// string. Entries are trimmed, lower-cased, and empties dropped. Anything
// else yields an empty set.
func ParseTags(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return cleanTags(strings.Split(v, ","))
	case []string:
		return cleanTags(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return cleanTags(tags)
	default:
		return []string{}
	}
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// sourcePrice prefers the first variant's price, then the top-level price.
// Malformed or negative values coerce to 0 rather than failing.
func sourcePrice(p SourceProduct) float64 {
	raw := ""
	if len(p.Variants) > 0 && strings.TrimSpace(p.Variants[0].Price) != "" {
		raw = p.Variants[0].Price
	} else {
		raw = p.Price
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

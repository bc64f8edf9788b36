package recommend

import (
	"sort"
	"sync/atomic"
)

// Reason strings surfaced with each strategy's results.
const (
	reasonTrending      = "Trending in your store"
	reasonSimilar       = "Similar to what you viewed"
	reasonCollaborative = "Similar users also bought"
	reasonHybrid        = "Recommended for you"
)

// Engine scores catalog items for one merchant. Training publishes a whole
// new snapshot through an atomic pointer swap, so concurrent readers always
// observe either the previous or the new state, never a mix.
type Engine struct {
	snap atomic.Pointer[snapshot]
}

// snapshot is the complete trained state at a point in time. itemOrder keeps
// first-insertion order so tie-breaking is deterministic across calls.
type snapshot struct {
	items     map[string]Item
	itemOrder []string
	orders    []SourceOrder
	customers map[string]SourceCustomer
}

// NewEngine returns an untrained engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Trained reports whether a snapshot has been published.
func (e *Engine) Trained() bool {
	return e.snap.Load() != nil
}

// Train replaces the engine's state with a snapshot built from the given raw
// records. Duplicate product ids overwrite (last occurrence wins) while
// keeping the first occurrence's position for ordering.
func (e *Engine) Train(products []SourceProduct, orders []SourceOrder, customers []SourceCustomer) {
	next := &snapshot{
		items:     make(map[string]Item, len(products)),
		itemOrder: make([]string, 0, len(products)),
		orders:    orders,
		customers: make(map[string]SourceCustomer, len(customers)),
	}
	for _, p := range products {
		item := NormalizeProduct(p)
		if _, seen := next.items[item.ID]; !seen {
			next.itemOrder = append(next.itemOrder, item.ID)
		}
		next.items[item.ID] = item
	}
	for _, c := range customers {
		next.customers[c.ID] = c
	}
	e.snap.Store(next)
}

type scoreFunc func(s *snapshot, productID string, limit int, exclude map[string]struct{}) []Recommendation

var strategies = map[Strategy]scoreFunc{
	StrategyPopularity: func(s *snapshot, _ string, limit int, exclude map[string]struct{}) []Recommendation {
		return s.popularity(limit, exclude)
	},
	StrategyContent: func(s *snapshot, productID string, limit int, exclude map[string]struct{}) []Recommendation {
		return s.content(productID, limit, exclude)
	},
	StrategyCollaborative: func(s *snapshot, _ string, limit int, exclude map[string]struct{}) []Recommendation {
		return s.collaborative(limit, exclude)
	},
	StrategyHybrid: func(s *snapshot, productID string, limit int, exclude map[string]struct{}) []Recommendation {
		return s.hybrid(productID, limit, exclude)
	},
}

// GetRecommendations scores items under the requested strategy. An untrained
// engine degrades to popularity scoring over whatever is loaded (nothing, so
// an empty result) rather than erroring. Unknown strategies dispatch as
// hybrid. Excluded items never appear in results and never feed score
// normalization.
func (e *Engine) GetRecommendations(opts Options) []Recommendation {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	exclude := make(map[string]struct{}, len(opts.ExcludeItems))
	for _, id := range opts.ExcludeItems {
		exclude[id] = struct{}{}
	}

	snap := e.snap.Load()
	if snap == nil {
		return (&snapshot{}).popularity(limit, exclude)
	}

	fn, ok := strategies[opts.Strategy]
	if !ok {
		fn = strategies[StrategyHybrid]
	}
	return fn(snap, opts.ProductID, limit, exclude)
}

func (s *snapshot) popularity(limit int, exclude map[string]struct{}) []Recommendation {
	counts := make(map[string]int)
	var seen []string
	for _, order := range s.orders {
		for _, line := range order.LineItems {
			id := line.ProductID
			if id == "" {
				continue
			}
			if _, skip := exclude[id]; skip {
				continue
			}
			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}
			if _, ok := counts[id]; !ok {
				seen = append(seen, id)
			}
			counts[id] += qty
		}
	}

	maxCount := 1
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	recs := make([]Recommendation, 0, len(seen))
	for _, id := range seen {
		recs = append(recs, Recommendation{
			ItemID:   id,
			Score:    float64(counts[id]) / float64(maxCount),
			Strategy: StrategyPopularity,
			Reason:   reasonTrending,
			Item:     s.item(id),
		})
	}
	sortByScore(recs)
	return truncate(recs, limit)
}

func (s *snapshot) content(productID string, limit int, exclude map[string]struct{}) []Recommendation {
	target, ok := s.items[productID]
	if !ok {
		return s.popularity(limit, exclude)
	}

	recs := make([]Recommendation, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if id == productID {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		candidate := s.items[id]

		score := 0.0
		if target.Category == candidate.Category {
			score += 0.3
		}
		if target.Brand == candidate.Brand {
			score += 0.2
		}
		score += 0.3 * tagSimilarity(target.Tags, candidate.Tags)
		score += 0.2 * priceSimilarity(target.Price, candidate.Price)

		recs = append(recs, Recommendation{
			ItemID:   id,
			Score:    score,
			Strategy: StrategyContent,
			Reason:   reasonSimilar,
			Item:     s.item(id),
		})
	}
	sortByScore(recs)
	return truncate(recs, limit)
}

// collaborative currently reuses popularity scoring relabeled; a
// co-occurrence model would slot in here.
func (s *snapshot) collaborative(limit int, exclude map[string]struct{}) []Recommendation {
	recs := s.popularity(limit, exclude)
	for i := range recs {
		recs[i].Strategy = StrategyCollaborative
		recs[i].Reason = reasonCollaborative
	}
	return recs
}

func (s *snapshot) hybrid(productID string, limit int, exclude map[string]struct{}) []Recommendation {
	var contentRecs []Recommendation
	if productID != "" {
		contentRecs = s.content(productID, 50, exclude)
	}
	popularityRecs := s.popularity(50, exclude)

	scores := make(map[string]float64)
	var order []string
	blend := func(recs []Recommendation) {
		for _, rec := range recs {
			if _, ok := scores[rec.ItemID]; !ok {
				order = append(order, rec.ItemID)
			}
			scores[rec.ItemID] += rec.Score * 0.5
		}
	}
	blend(contentRecs)
	blend(popularityRecs)

	recs := make([]Recommendation, 0, len(order))
	for _, id := range order {
		score := scores[id]
		if score > 1 {
			score = 1
		}
		recs = append(recs, Recommendation{
			ItemID:   id,
			Score:    score,
			Strategy: StrategyHybrid,
			Reason:   reasonHybrid,
			Item:     s.item(id),
		})
	}
	sortByScore(recs)
	return truncate(recs, limit)
}

// tagSimilarity is the Jaccard index of two tag sets, 0 when either is empty.
func tagSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	intersection := 0
	union := len(setA)
	for t := range setB {
		if _, ok := setA[t]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// priceSimilarity maps price distance to [0,1]; identical prices score 1.
func priceSimilarity(a, b float64) float64 {
	maxPrice := a
	if b > maxPrice {
		maxPrice = b
	}
	if maxPrice < 1 {
		maxPrice = 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	sim := 1 - diff/maxPrice
	if sim < 0 {
		return 0
	}
	return sim
}

func (s *snapshot) item(id string) *Item {
	if s.items == nil {
		return nil
	}
	if item, ok := s.items[id]; ok {
		return &item
	}
	return nil
}

func sortByScore(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}

func truncate(recs []Recommendation, limit int) []Recommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

package recommend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/shared/metrics"
	"smartrecommend-backend/internal/shared/server/respond"
	"smartrecommend-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the per-shop engine registry.
type Handler struct {
	Engines *Registry
}

// NewHandler constructs a Handler.
func NewHandler(engines *Registry) *Handler {
	return &Handler{Engines: engines}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.getRecommendations)
}

func (h *Handler) getRecommendations(c *gin.Context) {
	shop := c.Query("shop")
	if shop == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "shop is required", nil)
		return
	}
	if !util.ValidShopDomain(shop) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid shop domain", nil)
		return
	}

	opts := Options{
		ProductID: c.Query("product_id"),
		Strategy:  ParseStrategy(c.Query("strategy")),
		Limit:     DefaultLimit,
	}
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		opts.Limit = parsed
	}
	if v := c.Query("exclude"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.ExcludeItems = append(opts.ExcludeItems, id)
			}
		}
	}

	engine := h.Engines.For(shop)
	recs := engine.GetRecommendations(opts)
	if recs == nil {
		recs = []Recommendation{}
	}
	metrics.IncRecommendationsServed()

	respond.OK(c, gin.H{
		"shop":            shop,
		"strategy":        opts.Strategy,
		"count":           len(recs),
		"trained":         engine.Trained(),
		"recommendations": recs,
	})
}

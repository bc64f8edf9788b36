package syncer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/merchants"
	"smartrecommend-backend/internal/shared/server/respond"
	"smartrecommend-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the sync service.
type Handler struct {
	Svc       *Service
	Merchants merchants.Repo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, merchantRepo merchants.Repo) *Handler {
	return &Handler{Svc: svc, Merchants: merchantRepo}
}

// RegisterRoutes attaches sync routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.syncAll)
	rg.POST("/sync/orders", h.syncOrders)
}

type syncRequest struct {
	Shop string `json:"shop"`
}

type syncOrdersRequest struct {
	Shop    string `json:"shop"`
	SinceID int64  `json:"since_id"`
}

func (h *Handler) merchantFor(c *gin.Context, shop string) (merchants.Merchant, bool) {
	if shop == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "shop is required", nil)
		return merchants.Merchant{}, false
	}
	if !util.ValidShopDomain(shop) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid shop domain", nil)
		return merchants.Merchant{}, false
	}

	merchant, err := h.Merchants.GetByShop(c.Request.Context(), shop)
	if err != nil {
		switch {
		case errors.Is(err, merchants.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "shop is not installed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load merchant", nil)
		}
		return merchants.Merchant{}, false
	}
	return merchant, true
}

func (h *Handler) syncAll(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	merchant, ok := h.merchantFor(c, req.Shop)
	if !ok {
		return
	}

	summary, err := h.Svc.SyncAll(c.Request.Context(), merchant.Shop, merchant.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrSyncInProgress):
			respond.Error(c, http.StatusConflict, "sync_in_progress", "a sync is already running for this shop", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "sync_failed", "failed to sync shop data", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"shop":      merchant.Shop,
		"products":  summary.Products,
		"orders":    summary.Orders,
		"customers": summary.Customers,
	})
}

func (h *Handler) syncOrders(c *gin.Context) {
	var req syncOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	merchant, ok := h.merchantFor(c, req.Shop)
	if !ok {
		return
	}

	summary, err := h.Svc.SyncOrdersIncremental(c.Request.Context(), merchant.Shop, merchant.AccessToken, req.SinceID)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "sync_failed", "failed to sync orders", nil)
		return
	}

	respond.OK(c, gin.H{
		"shop":          merchant.Shop,
		"orders":        summary.Orders,
		"last_order_id": summary.LastOrderID,
	})
}

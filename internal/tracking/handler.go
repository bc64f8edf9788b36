package tracking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tracking service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tracking routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/track/:type", h.track)
	rg.GET("/track/stats", h.stats)
}

type trackRequest struct {
	Shop      string          `json:"shop"`
	ProductID string          `json:"product_id"`
	VisitorID string          `json:"visitor_id"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (h *Handler) track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Shop == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "shop is required", nil)
		return
	}

	event, err := h.Svc.Track(c.Request.Context(), req.Shop, c.Param("type"), EventInput{
		ProductID: req.ProductID,
		VisitorID: req.VisitorID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownEventType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown event type", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to track event", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"tracked":    true,
		"event_type": event.EventType,
	})
}

func (h *Handler) stats(c *gin.Context) {
	shop := c.Query("shop")
	if shop == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "shop is required", nil)
		return
	}

	opts := StatsOptions{EventType: c.Query("event_type")}
	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "start must be RFC 3339", nil)
			return
		}
		opts.Start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "end must be RFC 3339", nil)
			return
		}
		opts.End = parsed
	}

	stats, err := h.Svc.Stats(c.Request.Context(), shop, opts)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}

	respond.OK(c, stats)
}

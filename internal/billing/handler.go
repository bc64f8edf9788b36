package billing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the billing service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches billing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/billing", h.getBill)
}

func (h *Handler) getBill(c *gin.Context) {
	shop := c.Query("shop")
	if shop == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "shop is required", nil)
		return
	}

	var period Period
	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "start must be RFC 3339", nil)
			return
		}
		period.Start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "end must be RFC 3339", nil)
			return
		}
		period.End = parsed
	}

	bill, err := h.Svc.Calculate(c.Request.Context(), shop, period)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to calculate bill", nil)
		return
	}

	respond.OK(c, bill)
}

package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/auth"
	"smartrecommend-backend/internal/billing"
	"smartrecommend-backend/internal/recommend"
	"smartrecommend-backend/internal/shared/config"
	"smartrecommend-backend/internal/shared/server/middleware"
	"smartrecommend-backend/internal/syncer"
	"smartrecommend-backend/internal/tracking"
)

// RouterDeps carries the handlers the router registers.
type RouterDeps struct {
	Config           config.Config
	DBConnected      bool
	Auth             *auth.ShopifyService
	RecommendHandler *recommend.Handler
	SyncHandler      *syncer.Handler
	TrackingHandler  *tracking.Handler
	BillingHandler   *billing.Handler
}

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.ShopContext(),
		middleware.RateLimit(rateLimitConfig()),
	)

	registerRoutes(r, deps)
	return r
}

func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/api/v1/sync", "/api/v1/sync/orders":
				return "SYNC"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 20, Burst: 40},
			"SYNC":    {Rate: 0.5, Burst: 2},
		},
	}
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

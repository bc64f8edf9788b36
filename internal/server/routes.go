package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartrecommend-backend/internal/shared/metrics"
)

func registerRoutes(r *gin.Engine, deps RouterDeps) {
	storage := "memory"
	if deps.DBConnected {
		storage = "postgres"
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"app":     deps.Config.AppName,
			"env":     deps.Config.Env,
			"storage": storage,
		})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	deps.Auth.RegisterRoutes(api)
	deps.RecommendHandler.RegisterRoutes(api)
	deps.SyncHandler.RegisterRoutes(api)
	deps.TrackingHandler.RegisterRoutes(api)
	deps.BillingHandler.RegisterRoutes(api)
}

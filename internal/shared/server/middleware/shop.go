package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const shopKey ctxKey = "shop"

// ShopContext stores the caller's shop domain, from the shop query param or
// the X-Shop-Domain header, in both gin and request contexts.
func ShopContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := c.Query("shop")
		if shop == "" {
			shop = c.GetHeader("X-Shop-Domain")
		}
		if shop != "" {
			c.Set(string(shopKey), shop)
			ctx := context.WithValue(c.Request.Context(), shopKey, shop)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// ShopFromContext fetches the shop domain stored by ShopContext.
func ShopFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(shopKey).(string); ok {
		return v
	}
	return ""
}

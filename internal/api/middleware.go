package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safar/medshop/internal/models"
	"github.com/safar/medshop/internal/store"
)

const (
	ctxRetailer = "retailer"
	ctxToken    = "token"
)

// RequireAuth validates the bearer token and verifies the account still
// exists and is verified before letting the request through. The loaded
// retailer is stashed in the gin context for handlers.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format"})
			return
		}

		claims, err := a.tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		retailer, err := store.GetRetailerByID(c.Request.Context(), a.db, claims.RetailerID)
		if err != nil || !retailer.IsVerified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ctxRetailer, retailer)
		c.Set(ctxToken, parts[1])
		c.Next()
	}
}

func currentRetailer(c *gin.Context) *models.Retailer {
	return c.MustGet(ctxRetailer).(*models.Retailer)
}

// CORS allows the configured frontend origin.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

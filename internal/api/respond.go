package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/medshop/internal/database"
)

// respondStoreError maps store sentinels to HTTP statuses; anything
// unrecognized becomes a generic 500.
func (a *API) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrRetailerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Retailer not found"})
	case errors.Is(err, database.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, database.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
	case errors.Is(err, database.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
	case errors.Is(err, database.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
	case errors.Is(err, database.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
	case errors.Is(err, database.ErrNotGuest):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not a guest account"})
	default:
		a.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

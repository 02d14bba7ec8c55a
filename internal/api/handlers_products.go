package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/store"
)

type productRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Wholesaler        string  `json:"wholesaler" binding:"required"`
	Price             float64 `json:"price" binding:"gte=0"`
	Quantity          int     `json:"quantity" binding:"gte=0"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	Category          string  `json:"category"`
}

func (r productRequest) toInput() store.ProductInput {
	threshold := r.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return store.ProductInput{
		Name:              r.Name,
		Description:       r.Description,
		Wholesaler:        r.Wholesaler,
		Price:             decimal.NewFromFloat(r.Price),
		Quantity:          r.Quantity,
		LowStockThreshold: threshold,
		Category:          r.Category,
	}
}

func (a *API) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := store.CreateProduct(c.Request.Context(), a.db, currentRetailer(c).ID, req.toInput())
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (a *API) listProducts(c *gin.Context) {
	products, err := store.ListProducts(c.Request.Context(), a.db, currentRetailer(c).ID)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (a *API) listLowStockProducts(c *gin.Context) {
	products, err := store.ListLowStockProducts(c.Request.Context(), a.db, currentRetailer(c).ID)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (a *API) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := store.GetProduct(c.Request.Context(), a.db, currentRetailer(c).ID, id)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *API) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := store.UpdateProduct(c.Request.Context(), a.db, currentRetailer(c).ID, id, req.toInput())
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *API) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := store.DeleteProduct(c.Request.Context(), a.db, currentRetailer(c).ID, id); err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return id, true
}

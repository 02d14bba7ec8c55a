package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/store"
)

type saleItemRequest struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"gte=0"`
}

type createSaleRequest struct {
	Customer customerRequest   `json:"customer" binding:"required"`
	Items    []saleItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (a *API) createSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	storeReq := store.CreateSaleRequest{
		Customer: store.CustomerInput{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
	}
	for _, item := range req.Items {
		storeReq.Items = append(storeReq.Items, store.SaleItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     decimal.NewFromFloat(item.Price),
		})
	}

	sale, err := store.CreateSale(c.Request.Context(), a.db, currentRetailer(c).ID, storeReq)
	if err != nil {
		// An unknown product in the cart is a bad request, not a missing
		// resource.
		if errors.Is(err, database.ErrProductNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product not found"})
			return
		}
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Sale recorded", "sale": sale})
}

func (a *API) listSales(c *gin.Context) {
	opts := store.ListSalesOptions{}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	var ok bool
	if opts.StartDate, opts.EndDate, ok = dateRange(c); !ok {
		return
	}

	page, err := store.ListSales(c.Request.Context(), a.db, currentRetailer(c).ID, opts)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (a *API) saleReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sale, err := store.GetSale(c.Request.Context(), a.db, currentRetailer(c).ID, id)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.Header("Content-Type", a.receipts.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.txt", sale.ID))
	c.Status(http.StatusOK)

	if err := a.receipts.Render(c.Writer, sale); err != nil {
		a.log.WithError(err).Error("receipt render failed")
	}
}

// dateRange parses optional startDate/endDate query params (YYYY-MM-DD or
// RFC 3339). Both must be present for a range to apply.
func dateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	startStr, endStr := c.Query("startDate"), c.Query("endDate")
	if startStr == "" || endStr == "" {
		return nil, nil, true
	}

	start, err := parseDate(startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDate"})
		return nil, nil, false
	}
	end, err := parseDate(endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDate"})
		return nil, nil, false
	}

	return &start, &end, true
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

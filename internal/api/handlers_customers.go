package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/medshop/internal/store"
)

type customerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (a *API) listCustomers(c *gin.Context) {
	customers, err := store.ListCustomers(c.Request.Context(), a.db, currentRetailer(c).ID, c.Query("search"))
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (a *API) upsertCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := store.UpsertCustomer(c.Request.Context(), a.db, currentRetailer(c).ID, store.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (a *API) customerOrderHistory(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	retailerID := currentRetailer(c).ID

	// Confirms ownership before listing.
	if _, err := store.GetCustomer(c.Request.Context(), a.db, retailerID, customerID); err != nil {
		a.respondStoreError(c, err)
		return
	}

	sales, err := store.ListCustomerSales(c.Request.Context(), a.db, retailerID, customerID)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, sales)
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safar/medshop/internal/store"
)

// periodStart maps a dashboard period to its start date, anchored to the
// first of the month the way the reporting UI expects.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case "6months":
		return time.Date(now.Year(), now.Month()-6, 1, 0, 0, 0, 0, now.Location())
	case "1year":
		return time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, now.Location())
	default: // 1month
		return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	}
}

func (a *API) dashboardAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "1month")
	since := periodStart(time.Now(), period)

	analytics, err := store.GetAnalytics(c.Request.Context(), a.db, currentRetailer(c).ID, since)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}
	analytics.Period = period

	c.JSON(http.StatusOK, analytics)
}

func (a *API) recentSales(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sales, err := store.ListRecentSales(c.Request.Context(), a.db, currentRetailer(c).ID, limit)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, sales)
}

func (a *API) salesSummary(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	summary, err := store.GetSalesSummary(c.Request.Context(), a.db, currentRetailer(c).ID, start, end)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

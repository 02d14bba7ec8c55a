package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/store"
)

func TestGetAnalyticsProfitAndBuckets(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	retailer := createTestRetailer(t, db, "shop@x.com", false)

	// Cost price 10, sold at 15, qty 20: profit (15-10)*20 = 100.
	product := createTestProduct(t, db, retailer.ID, "Paracetamol", 10, 100)
	_, err := store.CreateSale(ctx, db, retailer.ID, store.CreateSaleRequest{
		Customer: store.CustomerInput{Name: "Ravi", Phone: "9999999999"},
		Items: []store.SaleItemRequest{
			{ProductID: product.ID, Quantity: 20, Price: decimal.NewFromInt(15)},
		},
	})
	if err != nil {
		t.Fatalf("Create sale: %v", err)
	}

	analytics, err := store.GetAnalytics(ctx, db, retailer.ID, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Get analytics: %v", err)
	}

	if !analytics.Summary.TotalSales.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected total sales 300, got %s", analytics.Summary.TotalSales)
	}
	if !analytics.Summary.TotalProfit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total profit 100, got %s", analytics.Summary.TotalProfit)
	}
	if analytics.Summary.TotalProducts != 1 || analytics.Summary.TotalCustomers != 1 {
		t.Errorf("Unexpected counts: %+v", analytics.Summary)
	}

	if len(analytics.ChartData) != 1 {
		t.Fatalf("Expected 1 chart bucket, got %d", len(analytics.ChartData))
	}
	point := analytics.ChartData[0]
	if !point.Sales.Equal(decimal.NewFromInt(300)) || !point.Profit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Unexpected bucket: %+v", point)
	}
}

func TestGetAnalyticsExcludesOldSalesAndOtherTenants(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	retailer := createTestRetailer(t, db, "shop@x.com", false)
	other := createTestRetailer(t, db, "other@x.com", false)

	product := createTestProduct(t, db, retailer.ID, "Old Stock", 5, 50)
	sale, err := store.CreateSale(ctx, db, retailer.ID, store.CreateSaleRequest{
		Customer: store.CustomerInput{Name: "A", Phone: "1"},
		Items: []store.SaleItemRequest{
			{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(9)},
		},
	})
	if err != nil {
		t.Fatalf("Create sale: %v", err)
	}
	if _, err := db.Exec(`UPDATE sales SET sale_date = NOW() - INTERVAL '2 years' WHERE id = $1`, sale.ID); err != nil {
		t.Fatalf("Backdate sale: %v", err)
	}

	otherProduct := createTestProduct(t, db, other.ID, "Other", 5, 50)
	if _, err := store.CreateSale(ctx, db, other.ID, store.CreateSaleRequest{
		Customer: store.CustomerInput{Name: "B", Phone: "2"},
		Items: []store.SaleItemRequest{
			{ProductID: otherProduct.ID, Quantity: 1, Price: decimal.NewFromInt(9)},
		},
	}); err != nil {
		t.Fatalf("Create other sale: %v", err)
	}

	analytics, err := store.GetAnalytics(ctx, db, retailer.ID, time.Now().AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("Get analytics: %v", err)
	}

	if !analytics.Summary.TotalSales.IsZero() {
		t.Errorf("Expected zero sales in window, got %s", analytics.Summary.TotalSales)
	}
	if len(analytics.ChartData) != 0 {
		t.Errorf("Expected empty chart, got %d buckets", len(analytics.ChartData))
	}
}

func TestGetSalesSummary(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	retailer := createTestRetailer(t, db, "shop@x.com", false)
	product := createTestProduct(t, db, retailer.ID, "Syrup", 6, 100)

	for _, price := range []int64{10, 30} {
		if _, err := store.CreateSale(ctx, db, retailer.ID, store.CreateSaleRequest{
			Customer: store.CustomerInput{Name: "C", Phone: "3"},
			Items: []store.SaleItemRequest{
				{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(price)},
			},
		}); err != nil {
			t.Fatalf("Create sale: %v", err)
		}
	}

	summary, err := store.GetSalesSummary(ctx, db, retailer.ID, nil, nil)
	if err != nil {
		t.Fatalf("Get summary: %v", err)
	}
	if summary.TotalTransactions != 2 {
		t.Errorf("Expected 2 transactions, got %d", summary.TotalTransactions)
	}
	if !summary.TotalSales.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected total 40, got %s", summary.TotalSales)
	}
	if !summary.AverageOrderValue.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected average 20, got %s", summary.AverageOrderValue)
	}
}

func TestGetSalesSummaryEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	retailer := createTestRetailer(t, db, "shop@x.com", false)

	summary, err := store.GetSalesSummary(context.Background(), db, retailer.ID, nil, nil)
	if err != nil {
		t.Fatalf("Get summary: %v", err)
	}
	if summary.TotalTransactions != 0 || !summary.TotalSales.IsZero() || !summary.AverageOrderValue.IsZero() {
		t.Errorf("Expected zeroes, got %+v", summary)
	}
}

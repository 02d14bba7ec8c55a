package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/models"
)

type AnalyticsSummary struct {
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	TotalProducts    int             `json:"totalProducts"`
	TotalCustomers   int             `json:"totalCustomers"`
	LowStockProducts int             `json:"lowStockProducts"`
}

type ChartPoint struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

type Analytics struct {
	Summary   AnalyticsSummary `json:"summary"`
	ChartData []ChartPoint     `json:"chartData"`
	Period    string           `json:"period"`
}

// GetAnalytics aggregates the retailer's sales since the given start date
// into day buckets, plus overall totals and inventory counts. Profit per
// line is (selling price - recorded cost price) * quantity.
func GetAnalytics(ctx context.Context, db *sql.DB, retailerID int64, since time.Time) (*Analytics, error) {
	analytics := &Analytics{
		Summary: AnalyticsSummary{
			TotalSales:  decimal.Zero,
			TotalProfit: decimal.Zero,
		},
		ChartData: []ChartPoint{},
	}

	daily := make(map[string]*ChartPoint)

	rows, err := db.QueryContext(ctx,
		`SELECT to_char(sale_date AT TIME ZONE 'UTC', 'YYYY-MM-DD'), SUM(total_amount)
		 FROM sales
		 WHERE retailer_id = $1 AND sale_date >= $2
		 GROUP BY 1`,
		retailerID, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date string
		var amount decimal.Decimal
		if err := rows.Scan(&date, &amount); err != nil {
			return nil, fmt.Errorf("scan sales bucket: %w", err)
		}
		daily[date] = &ChartPoint{Date: date, Sales: amount, Profit: decimal.Zero}
		analytics.Summary.TotalSales = analytics.Summary.TotalSales.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	profitRows, err := db.QueryContext(ctx,
		`SELECT to_char(s.sale_date AT TIME ZONE 'UTC', 'YYYY-MM-DD'),
		        SUM((si.price - si.cost_price) * si.quantity)
		 FROM sale_items si
		 JOIN sales s ON s.id = si.sale_id
		 WHERE s.retailer_id = $1 AND s.sale_date >= $2
		 GROUP BY 1`,
		retailerID, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate profit: %w", err)
	}
	defer profitRows.Close()

	for profitRows.Next() {
		var date string
		var profit decimal.Decimal
		if err := profitRows.Scan(&date, &profit); err != nil {
			return nil, fmt.Errorf("scan profit bucket: %w", err)
		}
		point, ok := daily[date]
		if !ok {
			point = &ChartPoint{Date: date, Sales: decimal.Zero, Profit: decimal.Zero}
			daily[date] = point
		}
		point.Profit = profit
		analytics.Summary.TotalProfit = analytics.Summary.TotalProfit.Add(profit)
	}
	if err := profitRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, point := range daily {
		analytics.ChartData = append(analytics.ChartData, *point)
	}
	sort.Slice(analytics.ChartData, func(i, j int) bool {
		return analytics.ChartData[i].Date < analytics.ChartData[j].Date
	})

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM products WHERE retailer_id = $1`, &analytics.Summary.TotalProducts},
		{`SELECT COUNT(*) FROM customers WHERE retailer_id = $1`, &analytics.Summary.TotalCustomers},
		{`SELECT COUNT(*) FROM products WHERE retailer_id = $1 AND quantity < low_stock_threshold`, &analytics.Summary.LowStockProducts},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query, retailerID).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	return analytics, nil
}

// ListRecentSales returns the retailer's latest sales with customer and
// line-item details for the dashboard feed.
func ListRecentSales(ctx context.Context, db *sql.DB, retailerID int64, limit int) ([]models.Sale, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := `
		SELECT s.id, s.retailer_id, s.customer_id, s.receipt_number, s.total_amount, s.sale_date,
		       c.id, c.retailer_id, c.name, c.email, c.phone, c.address, c.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.retailer_id = $1
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $2`

	sales, err := querySalesWithCustomer(ctx, db, query, retailerID, limit)
	if err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := loadSaleItems(ctx, db, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}

	return sales, nil
}

type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalTransactions int             `json:"totalTransactions"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// GetSalesSummary totals the retailer's sales in an optional date range.
// With no matching rows all figures are zero.
func GetSalesSummary(ctx context.Context, db *sql.DB, retailerID int64, startDate, endDate *time.Time) (*SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*), COALESCE(AVG(total_amount), 0)
		FROM sales
		WHERE retailer_id = $1`
	args := []interface{}{retailerID}

	if startDate != nil && endDate != nil {
		query += ` AND sale_date >= $2 AND sale_date <= $3`
		args = append(args, *startDate, *endDate)
	}

	summary := &SalesSummary{}
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalSales,
		&summary.TotalTransactions,
		&summary.AverageOrderValue,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	return summary, nil
}

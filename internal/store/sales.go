package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/models"
)

type CreateSaleRequest struct {
	Customer CustomerInput
	Items    []SaleItemRequest
}

type SaleItemRequest struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

func generateReceiptNumber() string {
	return "RCP-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// CreateSale records a point-of-sale transaction: the customer is found or
// created, each line snapshots the product's current price as its cost price,
// and stock is decremented with a non-negative guard. The whole sequence runs
// in one serializable transaction retried on conflict, so concurrent sales
// cannot oversell the same product.
func CreateSale(ctx context.Context, db *sql.DB, retailerID int64, req CreateSaleRequest) (*models.Sale, error) {
	var sale *models.Sale

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		customer, err := findOrCreateCustomerTx(ctx, tx, retailerID, req.Customer)
		if err != nil {
			return err
		}

		var totalAmount decimal.Decimal
		items := make([]models.SaleItem, 0, len(req.Items))

		for _, item := range req.Items {
			var costPrice decimal.Decimal
			err := tx.QueryRowContext(ctx,
				`SELECT price FROM products
				 WHERE id = $1 AND retailer_id = $2
				 FOR UPDATE`,
				item.ProductID, retailerID).Scan(&costPrice)
			if err != nil {
				if err == sql.ErrNoRows {
					return database.ErrProductNotFound
				}
				return fmt.Errorf("lock product %d: %w", item.ProductID, err)
			}

			totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			items = append(items, models.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				CostPrice: costPrice,
			})
		}

		sale = &models.Sale{
			RetailerID:    retailerID,
			CustomerID:    customer.ID,
			ReceiptNumber: generateReceiptNumber(),
			TotalAmount:   totalAmount,
			Customer:      customer,
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO sales (retailer_id, customer_id, receipt_number, total_amount, sale_date)
			 VALUES ($1, $2, $3, $4, NOW())
			 RETURNING id, sale_date`,
			retailerID, customer.ID, sale.ReceiptNumber, totalAmount).Scan(&sale.ID, &sale.SaleDate)
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		for i := range items {
			items[i].SaleID = sale.ID
			err = tx.QueryRowContext(ctx,
				`INSERT INTO sale_items (sale_id, product_id, quantity, price, cost_price)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`,
				sale.ID, items[i].ProductID, items[i].Quantity, items[i].Price, items[i].CostPrice).Scan(&items[i].ID)
			if err != nil {
				return fmt.Errorf("create sale item: %w", err)
			}

			if err := DecrementStock(ctx, tx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}

		sale.Items = items
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sale, nil
}

// GetSale loads a sale with its line items and customer, scoped by retailer.
func GetSale(ctx context.Context, db *sql.DB, retailerID, id int64) (*models.Sale, error) {
	sale := &models.Sale{}

	err := db.QueryRowContext(ctx,
		`SELECT id, retailer_id, customer_id, receipt_number, total_amount, sale_date
		 FROM sales
		 WHERE id = $1 AND retailer_id = $2`,
		id, retailerID).Scan(
		&sale.ID,
		&sale.RetailerID,
		&sale.CustomerID,
		&sale.ReceiptNumber,
		&sale.TotalAmount,
		&sale.SaleDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrSaleNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	customer, err := GetCustomer(ctx, db, retailerID, sale.CustomerID)
	if err != nil {
		return nil, err
	}
	sale.Customer = customer

	items, err := loadSaleItems(ctx, db, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return sale, nil
}

type ListSalesOptions struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

type SalesPage struct {
	Sales       []models.Sale `json:"sales"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int           `json:"total"`
}

// ListSales returns the retailer's sales, newest first, with optional date
// bounds and page/limit pagination.
func ListSales(ctx context.Context, db *sql.DB, retailerID int64, opts ListSalesOptions) (*SalesPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}

	where := `WHERE s.retailer_id = $1`
	args := []interface{}{retailerID}
	if opts.StartDate != nil && opts.EndDate != nil {
		where += fmt.Sprintf(` AND s.sale_date >= $%d AND s.sale_date <= $%d`, len(args)+1, len(args)+2)
		args = append(args, *opts.StartDate, *opts.EndDate)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales s `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sales: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.retailer_id, s.customer_id, s.receipt_number, s.total_amount, s.sale_date,
		       c.id, c.retailer_id, c.name, c.email, c.phone, c.address, c.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		%s
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	sales, err := querySalesWithCustomer(ctx, db, query, args...)
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

	return &SalesPage{
		Sales:       sales,
		TotalPages:  (total + opts.Limit - 1) / opts.Limit,
		CurrentPage: opts.Page,
		Total:       total,
	}, nil
}

// ListCustomerSales returns a customer's purchase history, newest first.
func ListCustomerSales(ctx context.Context, db *sql.DB, retailerID, customerID int64) ([]models.Sale, error) {
	query := `
		SELECT s.id, s.retailer_id, s.customer_id, s.receipt_number, s.total_amount, s.sale_date,
		       c.id, c.retailer_id, c.name, c.email, c.phone, c.address, c.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.retailer_id = $1 AND s.customer_id = $2
		ORDER BY s.sale_date DESC, s.id DESC`

	sales, err := querySalesWithCustomer(ctx, db, query, retailerID, customerID)
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

func querySalesWithCustomer(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Sale, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		customer := &models.Customer{}
		err := rows.Scan(
			&sale.ID,
			&sale.RetailerID,
			&sale.CustomerID,
			&sale.ReceiptNumber,
			&sale.TotalAmount,
			&sale.SaleDate,
			&customer.ID,
			&customer.RetailerID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Address,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sale.Customer = customer
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sales, nil
}

func loadSaleItems(ctx context.Context, db *sql.DB, saleID int64) ([]models.SaleItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT si.id, si.sale_id, COALESCE(si.product_id, 0), COALESCE(p.name, ''), si.quantity, si.price, si.cost_price
		 FROM sale_items si
		 LEFT JOIN products p ON p.id = si.product_id
		 WHERE si.sale_id = $1
		 ORDER BY si.id`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var items []models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
			&item.CostPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/models"
)

type ProductInput struct {
	Name              string
	Description       string
	Wholesaler        string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold int
	Category          string
}

const productColumns = `id, retailer_id, name, description, wholesaler, price, quantity, low_stock_threshold, category, created_at, updated_at`

func CreateProduct(ctx context.Context, db *sql.DB, retailerID int64, in ProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products (retailer_id, name, description, wholesaler, price, quantity, low_stock_threshold, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		retailerID, in.Name, in.Description, in.Wholesaler, in.Price, in.Quantity, in.LowStockThreshold, in.Category))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

// GetProduct is scoped by retailer: another tenant's product reads as absent.
func GetProduct(ctx context.Context, db *sql.DB, retailerID, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND retailer_id = $2`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id, retailerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func ListProducts(ctx context.Context, db *sql.DB, retailerID int64) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE retailer_id = $1 ORDER BY created_at DESC, id DESC`
	return queryProducts(ctx, db, query, retailerID)
}

// ListLowStockProducts returns products whose quantity has fallen below
// their own reorder threshold.
func ListLowStockProducts(ctx context.Context, db *sql.DB, retailerID int64) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE retailer_id = $1 AND quantity < low_stock_threshold ORDER BY quantity ASC`
	return queryProducts(ctx, db, query, retailerID)
}

func UpdateProduct(ctx context.Context, db *sql.DB, retailerID, id int64, in ProductInput) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, wholesaler = $3, price = $4, quantity = $5,
		    low_stock_threshold = $6, category = $7, updated_at = NOW()
		WHERE id = $8 AND retailer_id = $9
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Wholesaler, in.Price, in.Quantity, in.LowStockThreshold, in.Category, id, retailerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, retailerID, id int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND retailer_id = $2`, id, retailerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// DecrementStock subtracts quantity inside the caller's transaction. The
// WHERE guard keeps stock from going negative under concurrent sales.
func DecrementStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET quantity = quantity - $1,
		     updated_at = NOW()
		 WHERE id = $2
		   AND quantity >= $1`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrInsufficientStock
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.RetailerID,
		&product.Name,
		&product.Description,
		&product.Wholesaler,
		&product.Price,
		&product.Quantity,
		&product.LowStockThreshold,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func queryProducts(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

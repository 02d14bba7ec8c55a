package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/models"
)

type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

const customerColumns = `id, retailer_id, name, email, phone, address, created_at`

// ListCustomers returns the retailer's customers, newest first. A non-empty
// search term matches name or email case-insensitively.
func ListCustomers(ctx context.Context, db *sql.DB, retailerID int64, search string) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE retailer_id = $1`
	args := []interface{}{retailerID}

	if search != "" {
		query += ` AND (name ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return customers, nil
}

func GetCustomer(ctx context.Context, db *sql.DB, retailerID, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND retailer_id = $2`

	customer, err := scanCustomer(db.QueryRowContext(ctx, query, id, retailerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}

// UpsertCustomer updates an existing customer matched by email or phone
// within the retailer's scope, or creates one. Customers are never duplicated
// for a matching contact detail.
func UpsertCustomer(ctx context.Context, db *sql.DB, retailerID int64, in CustomerInput) (*models.Customer, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM customers
		 WHERE retailer_id = $1 AND ((email <> '' AND email = $2) OR (phone <> '' AND phone = $3))
		 LIMIT 1`,
		retailerID, in.Email, in.Phone).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		query := `
			INSERT INTO customers (retailer_id, name, email, phone, address, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING ` + customerColumns
		customer, err := scanCustomer(db.QueryRowContext(ctx, query,
			retailerID, in.Name, in.Email, in.Phone, in.Address))
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return customer, nil
	case err != nil:
		return nil, fmt.Errorf("find customer: %w", err)
	}

	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4
		WHERE id = $5 AND retailer_id = $6
		RETURNING ` + customerColumns
	customer, err := scanCustomer(db.QueryRowContext(ctx, query,
		in.Name, in.Email, in.Phone, in.Address, id, retailerID))
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// findOrCreateCustomerTx locates a customer by (name, phone) inside a sale
// transaction, creating one when absent.
func findOrCreateCustomerTx(ctx context.Context, tx *sql.Tx, retailerID int64, in CustomerInput) (*models.Customer, error) {
	customer, err := scanCustomer(tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE retailer_id = $1 AND name = $2 AND phone = $3
		 LIMIT 1`,
		retailerID, in.Name, in.Phone))
	if err == nil {
		return customer, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	customer, err = scanCustomer(tx.QueryRowContext(ctx,
		`INSERT INTO customers (retailer_id, name, email, phone, address, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING `+customerColumns,
		retailerID, in.Name, in.Email, in.Phone, in.Address))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.RetailerID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

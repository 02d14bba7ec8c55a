package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safar/medshop/internal/database"
)

// Guests adapts the guest cleanup queries to the sweeper's store interface.
type Guests struct {
	DB *sql.DB
}

func (g Guests) DeleteExpiredGuests(ctx context.Context, cutoff time.Time) (int, error) {
	return DeleteExpiredGuests(ctx, g.DB, cutoff)
}

// CleanupGuest deletes a guest retailer and every row that references it.
// The deletes run inside one transaction so a partially cleaned account is
// never left behind.
func CleanupGuest(ctx context.Context, db *sql.DB, retailerID int64) error {
	return database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var isGuest bool
		err := tx.QueryRowContext(ctx,
			`SELECT is_guest FROM retailers WHERE id = $1`, retailerID).Scan(&isGuest)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrRetailerNotFound
			}
			return fmt.Errorf("get retailer: %w", err)
		}
		if !isGuest {
			return database.ErrNotGuest
		}

		return deleteRetailerData(ctx, tx, retailerID)
	})
}

// DeleteExpiredGuests removes every guest account created before cutoff,
// together with its owned data. Each account is cleaned up independently;
// a failure on one does not stop the rest. Returns the number of accounts
// removed and the last error seen, if any.
func DeleteExpiredGuests(ctx context.Context, db *sql.DB, cutoff time.Time) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM retailers WHERE is_guest = TRUE AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired guests: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan guest id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("rows error: %w", err)
	}

	var cleaned int
	var lastErr error
	for _, id := range ids {
		if err := CleanupGuest(ctx, db, id); err != nil {
			lastErr = fmt.Errorf("cleanup guest %d: %w", id, err)
			continue
		}
		cleaned++
	}

	return cleaned, lastErr
}

func deleteRetailerData(ctx context.Context, tx *sql.Tx, retailerID int64) error {
	statements := []string{
		`DELETE FROM sale_items WHERE sale_id IN (SELECT id FROM sales WHERE retailer_id = $1)`,
		`DELETE FROM sales WHERE retailer_id = $1`,
		`DELETE FROM customers WHERE retailer_id = $1`,
		`DELETE FROM products WHERE retailer_id = $1`,
		`DELETE FROM retailers WHERE id = $1`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, retailerID); err != nil {
			return fmt.Errorf("delete retailer data: %w", err)
		}
	}

	return nil
}

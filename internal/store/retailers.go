package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safar/medshop/internal/database"
	"github.com/safar/medshop/internal/models"
)

type CreateRetailerRequest struct {
	ShopName     string
	Email        string
	PasswordHash string
	IsVerified   bool
	IsGuest      bool
	OTP          *string
	OTPExpiresAt *time.Time
}

func CreateRetailer(ctx context.Context, db *sql.DB, req CreateRetailerRequest) (*models.Retailer, error) {
	retailer := &models.Retailer{}

	query := `
		INSERT INTO retailers (shop_name, email, password_hash, is_verified, is_guest, otp, otp_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, shop_name, email, password_hash, is_verified, is_guest, otp, otp_expires_at, created_at, updated_at`

	err := db.QueryRowContext(ctx, query,
		req.ShopName, req.Email, req.PasswordHash, req.IsVerified, req.IsGuest, req.OTP, req.OTPExpiresAt).Scan(
		&retailer.ID,
		&retailer.ShopName,
		&retailer.Email,
		&retailer.PasswordHash,
		&retailer.IsVerified,
		&retailer.IsGuest,
		&retailer.OTP,
		&retailer.OTPExpiresAt,
		&retailer.CreatedAt,
		&retailer.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create retailer: %w", err)
	}

	return retailer, nil
}

func GetRetailerByEmail(ctx context.Context, db *sql.DB, email string) (*models.Retailer, error) {
	return scanRetailer(db.QueryRowContext(ctx, retailerSelect+" WHERE email = $1", email))
}

func GetRetailerByID(ctx context.Context, db *sql.DB, id int64) (*models.Retailer, error) {
	return scanRetailer(db.QueryRowContext(ctx, retailerSelect+" WHERE id = $1", id))
}

const retailerSelect = `
	SELECT id, shop_name, email, password_hash, is_verified, is_guest, otp, otp_expires_at, created_at, updated_at
	FROM retailers`

func scanRetailer(row *sql.Row) (*models.Retailer, error) {
	retailer := &models.Retailer{}
	err := row.Scan(
		&retailer.ID,
		&retailer.ShopName,
		&retailer.Email,
		&retailer.PasswordHash,
		&retailer.IsVerified,
		&retailer.IsGuest,
		&retailer.OTP,
		&retailer.OTPExpiresAt,
		&retailer.CreatedAt,
		&retailer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrRetailerNotFound
		}
		return nil, fmt.Errorf("get retailer: %w", err)
	}
	return retailer, nil
}

// MarkRetailerVerified flips the account to verified and clears the passcode.
func MarkRetailerVerified(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE retailers
		 SET is_verified = TRUE, otp = NULL, otp_expires_at = NULL, updated_at = NOW()
		 WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("mark retailer verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrRetailerNotFound
	}

	return nil
}

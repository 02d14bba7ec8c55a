package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Retailer is a tenant account. Every product, customer and sale belongs to
// exactly one retailer; guest retailers are pre-verified demo accounts that
// are deleted once their session window elapses.
type Retailer struct {
	ID           int64      `json:"id"`
	ShopName     string     `json:"shopName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	IsGuest      bool       `json:"isGuest"`
	OTP          *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Product struct {
	ID                int64           `json:"id"`
	RetailerID        int64           `json:"retailerId"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Wholesaler        string          `json:"wholesaler"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	Category          string          `json:"category,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type Customer struct {
	ID         int64     `json:"id"`
	RetailerID int64     `json:"retailerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Sale is immutable once recorded. Each item snapshots the product's cost
// price at sale time so profit reporting is unaffected by later price edits.
type Sale struct {
	ID            int64           `json:"id"`
	RetailerID    int64           `json:"retailerId"`
	CustomerID    int64           `json:"customerId"`
	ReceiptNumber string          `json:"receiptNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	SaleDate      time.Time       `json:"saleDate"`
	Customer      *Customer       `json:"customer,omitempty"`
	Items         []SaleItem      `json:"items,omitempty"`
}

type SaleItem struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"saleId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
}

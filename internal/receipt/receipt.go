// Package receipt renders sale receipts. The text renderer stands in for an
// external document service; swapping in a PDF backend means implementing
// Renderer.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/safar/medshop/internal/models"
)

// Renderer writes a formatted receipt for a sale to w.
type Renderer interface {
	Render(w io.Writer, sale *models.Sale) error
	ContentType() string
}

// TextRenderer produces a plain-text receipt.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(w io.Writer, sale *models.Sale) error {
	var b strings.Builder

	b.WriteString("SALES RECEIPT\n")
	b.WriteString(fmt.Sprintf("Receipt: %s\n", sale.ReceiptNumber))
	b.WriteString(fmt.Sprintf("Date: %s\n", sale.SaleDate.Format("2006-01-02 15:04:05")))
	if sale.Customer != nil {
		b.WriteString(fmt.Sprintf("Customer: %s\n", sale.Customer.Name))
		if sale.Customer.Email != "" {
			b.WriteString(fmt.Sprintf("Email: %s\n", sale.Customer.Email))
		}
		if sale.Customer.Phone != "" {
			b.WriteString(fmt.Sprintf("Phone: %s\n", sale.Customer.Phone))
		}
	}
	b.WriteString("\nProducts:\n")
	for _, item := range sale.Items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("#%d", item.ProductID)
		}
		b.WriteString(fmt.Sprintf("- %s | Qty: %d | Price: %s\n", name, item.Quantity, item.Price.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("\nTotal Amount: %s\n", sale.TotalAmount.StringFixed(2)))

	_, err := io.WriteString(w, b.String())
	return err
}

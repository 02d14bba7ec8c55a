package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/medshop/internal/models"
)

func TestTextRendererRender(t *testing.T) {
	sale := &models.Sale{
		ReceiptNumber: "RCP-abc12345",
		TotalAmount:   decimal.NewFromInt(300),
		SaleDate:      time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		Customer: &models.Customer{
			Name:  "Ravi",
			Phone: "9999999999",
		},
		Items: []models.SaleItem{
			{ProductName: "Paracetamol", Quantity: 20, Price: decimal.NewFromInt(15)},
		},
	}

	var sb strings.Builder
	require.NoError(t, TextRenderer{}.Render(&sb, sale))

	out := sb.String()
	assert.Contains(t, out, "RCP-abc12345")
	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "Paracetamol | Qty: 20 | Price: 15.00")
	assert.Contains(t, out, "Total Amount: 300.00")
}

func TestTextRendererUnnamedProduct(t *testing.T) {
	sale := &models.Sale{
		ReceiptNumber: "RCP-x",
		TotalAmount:   decimal.NewFromInt(10),
		SaleDate:      time.Now(),
		Items: []models.SaleItem{
			{ProductID: 7, Quantity: 1, Price: decimal.NewFromInt(10)},
		},
	}

	var sb strings.Builder
	require.NoError(t, TextRenderer{}.Render(&sb, sale))
	assert.Contains(t, sb.String(), "#7")
}

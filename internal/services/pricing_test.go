package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTotals(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, Price: dec("40")},
		{Quantity: 1, Price: dec("20")},
	}

	totals := CalculateTotals(items, decimal.Zero, dec("0.15"), decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(dec("100")), totals.Subtotal.String())
	assert.True(t, totals.Tax.Equal(dec("15")), totals.Tax.String())
	assert.True(t, totals.Total.Equal(dec("115")), totals.Total.String())

	var order models.Order
	totals.Apply(&order)
	require.NoError(t, VerifyTotals(&order))
}

func TestCalculateTotals_RoundsTax(t *testing.T) {
	items := []models.OrderItem{{Quantity: 3, Price: dec("9.99")}}

	totals := CalculateTotals(items, dec("25"), dec("0.15"), dec("5"))

	assert.Equal(t, "29.97", totals.Subtotal.String())
	assert.Equal(t, "4.5", totals.Tax.String())
	assert.Equal(t, "54.47", totals.Total.String())
}

func TestVerifyTotals(t *testing.T) {
	tests := []struct {
		name    string
		order   models.Order
		wantErr bool
	}{
		{
			name:  "balanced",
			order: models.Order{Subtotal: dec("100"), ShippingCost: dec("25"), Tax: dec("15"), Discount: dec("10"), Total: dec("130")},
		},
		{
			name:    "off_by_one",
			order:   models.Order{Subtotal: dec("100"), Tax: dec("15"), Total: dec("116")},
			wantErr: true,
		},
		{
			name:    "negative",
			order:   models.Order{Subtotal: dec("10"), Discount: dec("20"), Total: dec("-10")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyTotals(&tt.order)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTotalsMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

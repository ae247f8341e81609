package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/souqly/internal/models"
)

// Totals are the money fields of an order.
type Totals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
}

// CalculateTotals prices a cart. Tax is charged on the subtotal and rounded to halalas.
func CalculateTotals(items []models.OrderItem, shipping decimal.Decimal, vatRate decimal.Decimal, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(vatRate).Round(2)

	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Discount:     discount,
		Total:        subtotal.Add(shipping).Add(tax).Sub(discount),
	}
}

// Apply copies the totals onto an order.
func (t Totals) Apply(order *models.Order) {
	order.Subtotal = t.Subtotal
	order.ShippingCost = t.ShippingCost
	order.Tax = t.Tax
	order.Discount = t.Discount
	order.Total = t.Total
}

// VerifyTotals checks total == subtotal + shippingCost + tax - discount.
func VerifyTotals(order *models.Order) error {
	want := order.Subtotal.Add(order.ShippingCost).Add(order.Tax).Sub(order.Discount)
	if !order.Total.Equal(want) {
		return fmt.Errorf("%w: total %s, expected %s", ErrTotalsMismatch, order.Total, want)
	}
	if order.Total.IsNegative() {
		return fmt.Errorf("%w: negative total %s", ErrTotalsMismatch, order.Total)
	}
	return nil
}

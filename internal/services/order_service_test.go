package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/models"
)

func catalogFixture() (map[uuid.UUID]models.Product, uuid.UUID, uuid.UUID) {
	phoneID, caseID := uuid.New(), uuid.New()
	phones := &models.Category{NameAr: "هواتف", NameEn: "Phones"}
	products := map[uuid.UUID]models.Product{
		phoneID: {BaseModel: models.BaseModel{ID: phoneID}, NameEn: "Phone X", Price: dec("100"), Stock: 5, Active: true, Category: phones},
		caseID:  {BaseModel: models.BaseModel{ID: caseID}, NameAr: "غطاء", Price: dec("20"), Stock: 1, Active: false},
	}
	return products, phoneID, caseID
}

func defaultSettings() (*models.PaymentSettings, *models.ShippingSettings) {
	payment := &models.PaymentSettings{}
	payment.InitDefaults()
	shipping := &models.ShippingSettings{}
	shipping.InitDefaults()
	return payment, shipping
}

func TestPriceOrder(t *testing.T) {
	products, phoneID, _ := catalogFixture()
	payment, shipping := defaultSettings()
	payment.CODFee = dec("10")

	order, err := PriceOrder(CheckoutInput{
		Items:         []CheckoutItem{{ProductID: phoneID, Quantity: 2}},
		PaymentMethod: models.PaymentMethodCOD,
	}, products, payment, shipping, dec("0.15"))
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Phone X", order.Items[0].ProductName)
	assert.Equal(t, "Phones", order.Items[0].Category)
	assert.Equal(t, "200", order.Subtotal.String())
	assert.Equal(t, "35", order.ShippingCost.String())
	assert.Equal(t, "30", order.Tax.String())
	assert.Equal(t, "265", order.Total.String())
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.NoError(t, VerifyTotals(order))
}

func TestPriceOrder_FreeShippingAboveThreshold(t *testing.T) {
	products, phoneID, _ := catalogFixture()
	payment, shipping := defaultSettings()
	payment.Tap = models.GatewayConfig{Enabled: true, PublicKey: "pk", SecretKey: "sk"}

	order, err := PriceOrder(CheckoutInput{
		Items:         []CheckoutItem{{ProductID: phoneID, Quantity: 3}},
		PaymentMethod: models.PaymentMethodTap,
	}, products, payment, shipping, dec("0.15"))
	require.NoError(t, err)

	assert.True(t, order.ShippingCost.IsZero())
	assert.Equal(t, "345", order.Total.String())
}

func TestPriceOrder_Rejects(t *testing.T) {
	products, phoneID, caseID := catalogFixture()
	payment, shipping := defaultSettings()

	tests := []struct {
		name string
		in   CheckoutInput
		want error
	}{
		{"empty", CheckoutInput{PaymentMethod: models.PaymentMethodCOD}, ErrEmptyOrder},
		{"inactive product", CheckoutInput{Items: []CheckoutItem{{ProductID: caseID, Quantity: 1}}, PaymentMethod: models.PaymentMethodCOD}, ErrProductUnavailable},
		{"unknown product", CheckoutInput{Items: []CheckoutItem{{ProductID: uuid.New(), Quantity: 1}}, PaymentMethod: models.PaymentMethodCOD}, ErrProductUnavailable},
		{"not enough stock", CheckoutInput{Items: []CheckoutItem{{ProductID: phoneID, Quantity: 6}}, PaymentMethod: models.PaymentMethodCOD}, ErrProductUnavailable},
		{"disabled gateway", CheckoutInput{Items: []CheckoutItem{{ProductID: phoneID, Quantity: 1}}, PaymentMethod: models.PaymentMethodTabby}, ErrPaymentMethodDisabled},
		{"unknown method", CheckoutInput{Items: []CheckoutItem{{ProductID: phoneID, Quantity: 1}}, PaymentMethod: "bitcoin"}, ErrPaymentMethodDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceOrder(tt.in, products, payment, shipping, dec("0.15"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

	first := NewOrderNumber(now)
	second := NewOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD-261017-[0-9A-F]{6}$`), first)
	assert.NotEqual(t, first, second)
}

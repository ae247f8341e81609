package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodTap    PaymentMethod = "tap"
	PaymentMethodTamara PaymentMethod = "tamara"
	PaymentMethodTabby  PaymentMethod = "tabby"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodTap, PaymentMethodTamara, PaymentMethodTabby:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// ShippingAddress is stored inline on the order row.
type ShippingAddress struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	City     string `json:"city" validate:"required"`
	District string `json:"district,omitempty"`
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
}

// SelectedOptions are the variant choices made for a line item.
type SelectedOptions struct {
	Color   string         `json:"color,omitempty"`
	Storage string         `json:"storage,omitempty"`
	Other   pq.StringArray `gorm:"type:text[]" json:"other,omitempty"`
}

// StatusEntry is one row of an order's append-only status history.
type StatusEntry struct {
	Status OrderStatus `json:"status"`
	Note   string      `json:"note,omitempty"`
	Date   time.Time   `json:"date"`
}

type Order struct {
	BaseModel
	OrderNumber     string                           `gorm:"uniqueIndex" json:"order_number"`
	UserID          uuid.UUID                        `gorm:"type:uuid;index" json:"user_id"`
	User            *User                            `json:"user,omitempty"`
	Items           []OrderItem                      `json:"items,omitempty"`
	ShippingAddress ShippingAddress                  `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Subtotal        decimal.Decimal                  `gorm:"type:numeric(12,2)" json:"subtotal"`
	ShippingCost    decimal.Decimal                  `gorm:"type:numeric(12,2)" json:"shipping_cost"`
	Tax             decimal.Decimal                  `gorm:"type:numeric(12,2)" json:"tax"`
	Discount        decimal.Decimal                  `gorm:"type:numeric(12,2)" json:"discount"`
	Total           decimal.Decimal                  `gorm:"type:numeric(12,2)" json:"total"`
	Currency        string                           `json:"currency"`
	PaymentMethod   PaymentMethod                    `gorm:"type:varchar(16)" json:"payment_method"`
	PaymentStatus   PaymentStatus                    `gorm:"type:varchar(16);index" json:"payment_status"`
	Status          OrderStatus                      `gorm:"type:varchar(16);index" json:"status"`
	StatusHistory   datatypes.JSONSlice[StatusEntry] `gorm:"type:jsonb" json:"status_history"`
}

type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID       *uuid.UUID      `gorm:"type:uuid" json:"product_id"`
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	SelectedOptions SelectedOptions `gorm:"embedded;embeddedPrefix:option_" json:"selected_options"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/souqly/internal/models"
)

// OrderNotifier is told about order events once they are committed.
type OrderNotifier interface {
	NotifyNewOrder(ctx context.Context, order *models.Order) error
	NotifyStatusChange(ctx context.Context, order *models.Order, from models.OrderStatus) error
}

const notifyTimeout = 15 * time.Second

// CheckoutItem is one cart line submitted at checkout.
type CheckoutItem struct {
	ProductID       uuid.UUID              `json:"product_id" validate:"required"`
	Quantity        int                    `json:"quantity" validate:"gt=0"`
	SelectedOptions models.SelectedOptions `json:"selected_options"`
}

// CheckoutInput is the payload used to place an order.
type CheckoutInput struct {
	Items           []CheckoutItem         `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method" validate:"required,oneof=cod tap tamara tabby"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID *uuid.UUID
	Status models.OrderStatus
	Search string
}

// OrderService owns order persistence, checkout and status changes.
type OrderService struct {
	db       *gorm.DB
	policy   StatusPolicy
	notifier OrderNotifier
	vatRate  decimal.Decimal
	currency string
	now      func() time.Time
}

// NewOrderService constructs OrderService. notifier may be nil.
func NewOrderService(db *gorm.DB, policy StatusPolicy, notifier OrderNotifier, vatRate float64, currency string) *OrderService {
	return &OrderService{
		db:       db,
		policy:   policy,
		notifier: notifier,
		vatRate:  decimal.NewFromFloat(vatRate),
		currency: currency,
		now:      time.Now,
	}
}

// Policy returns the status policy in force.
func (s *OrderService) Policy() StatusPolicy {
	return s.policy
}

// NewOrderNumber returns an identifier like ORD-261017-4F09A2.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("060102"), suffix)
}

// PriceOrder builds an unsaved order from cart lines and the current catalog
// and settings. Totals always balance.
func PriceOrder(in CheckoutInput, products map[uuid.UUID]models.Product, payment *models.PaymentSettings, shipping *models.ShippingSettings, vatRate decimal.Decimal) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !in.PaymentMethod.Valid() || !payment.MethodEnabled(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: %s", ErrPaymentMethodDisabled, in.PaymentMethod)
	}

	order := &models.Order{
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
	}

	subtotal := decimal.Zero
	for _, line := range in.Items {
		product, ok := products[line.ProductID]
		if !ok || !product.Active {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: only %d of %q left", ErrProductUnavailable, product.Stock, product.NameEn)
		}

		productID := product.ID
		item := models.OrderItem{
			ProductID:       &productID,
			ProductName:     product.NameEn,
			Category:        product.CategoryName(),
			Quantity:        line.Quantity,
			Price:           product.Price,
			SelectedOptions: line.SelectedOptions,
		}
		if item.ProductName == "" {
			item.ProductName = product.NameAr
		}
		subtotal = subtotal.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}

	shippingCost := shipping.CostFor(subtotal)
	if in.PaymentMethod == models.PaymentMethodCOD {
		shippingCost = shippingCost.Add(payment.CODFee)
	}

	CalculateTotals(order.Items, shippingCost, vatRate, decimal.Zero).Apply(order)
	if err := VerifyTotals(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Checkout prices the cart against the catalog, reserves stock and stores the order.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (*models.Order, error) {
	payment, err := LoadSettings[models.PaymentSettings](ctx, s.db)
	if err != nil {
		return nil, err
	}
	shipping, err := LoadSettings[models.ShippingSettings](ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.ProductID)
	}
	var found []models.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	order, err := PriceOrder(in, products, payment, shipping, s.vatRate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order.UserID = userID
	order.Currency = s.currency
	order.OrderNumber = NewOrderNumber(now)
	order.StatusHistory = []models.StatusEntry{{Status: models.OrderStatusPending, Note: "Order placed", Date: now}}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s is out of stock", ErrProductUnavailable, item.ProductName)
			}
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Msg("orders: order placed")

	s.notify(func(ctx context.Context) error { return s.notifier.NotifyNewOrder(ctx, order) })
	return order, nil
}

// UpdateStatus moves an order to target and appends one history entry.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus, note string) (*models.Order, error) {
	var (
		order models.Order
		from  models.OrderStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id, &order); err != nil {
			return err
		}
		from = order.Status
		if err := ApplyStatus(&order, target, note, s.now(), s.policy); err != nil {
			return err
		}
		return tx.Model(&order).Updates(map[string]any{
			"status":         order.Status,
			"status_history": order.StatusHistory,
			"updated_at":     order.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", id.String()).
		Str("from", from.String()).
		Str("to", target.String()).
		Msg("orders: status updated")

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(func(ctx context.Context) error { return s.notifier.NotifyStatusChange(ctx, updated, from) })
	return updated, nil
}

// UpdatePaymentStatus sets the payment status. The order status is left alone.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockOrder(tx, id, &order); err != nil {
			return err
		}
		if err := ApplyPaymentStatus(&order, status, s.now()); err != nil {
			return err
		}
		return tx.Model(&order).Updates(map[string]any{
			"payment_status": order.PaymentStatus,
			"updated_at":     order.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("order_id", id.String()).Str("payment_status", status.String()).Msg("orders: payment status updated")
	return s.Get(ctx, id)
}

func lockOrder(tx *gorm.DB, id uuid.UUID, order *models.Order) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}

// Get loads an order with its items.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) query(ctx context.Context, f OrderFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("order_number ILIKE ? OR shipping_name ILIKE ? OR shipping_phone ILIKE ?", like, like, like)
	}
	return q
}

// List returns one page of orders matching f, newest first, and the total count.
func (s *OrderService) List(ctx context.Context, f OrderFilter, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := s.query(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := s.query(ctx, f).Preload("Items")
	if f.UserID == nil {
		q = q.Preload("User")
	}

	orders := []models.Order{}
	err := q.Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

// All returns every order matching f, newest first.
func (s *OrderService) All(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.query(ctx, f).Preload("Items").Order("created_at desc").Find(&orders).Error
	return orders, err
}

// UserStats computes the dashboard aggregates for one customer.
func (s *OrderService) UserStats(ctx context.Context, userID uuid.UUID) (OrderStats, error) {
	orders, err := s.All(ctx, OrderFilter{UserID: &userID})
	if err != nil {
		return OrderStats{}, err
	}
	return ComputeOrderStats(orders, s.now()), nil
}

// AdminStats computes the store wide dashboard aggregates.
func (s *OrderService) AdminStats(ctx context.Context) (AdminStats, error) {
	orders, err := s.All(ctx, OrderFilter{})
	if err != nil {
		return AdminStats{}, err
	}
	return ComputeAdminStats(orders, s.now()), nil
}

// notify runs fn in the background. Failures are logged and never surface to the caller.
func (s *OrderService) notify(fn func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Msg("orders: notification failed")
		}
	}()
}

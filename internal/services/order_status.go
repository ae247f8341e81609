package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/souqly/internal/models"
)

var allowedTransitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusPending: {
		models.OrderStatusConfirmed:  true,
		models.OrderStatusProcessing: true,
		models.OrderStatusCancelled:  true,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusProcessing: true,
		models.OrderStatusShipped:    true,
		models.OrderStatusCancelled:  true,
	},
	models.OrderStatusProcessing: {
		models.OrderStatusShipped:   true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusShipped: {
		models.OrderStatusDelivered: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// StatusPolicy decides which order status changes are accepted.
// The zero value accepts any known status after any other.
type StatusPolicy struct {
	Strict bool
}

// CanTransition reports whether an order may move from one status to another.
func (p StatusPolicy) CanTransition(from, to models.OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if !p.Strict {
		return true
	}
	return allowedTransitions[from][to]
}

// NextStatuses lists the statuses reachable from the given one.
func (p StatusPolicy) NextStatuses(from models.OrderStatus) []models.OrderStatus {
	next := make([]models.OrderStatus, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		if p.CanTransition(from, s) {
			next = append(next, s)
		}
	}
	return next
}

// ApplyStatus sets the order status and appends exactly one history entry.
func ApplyStatus(order *models.Order, target models.OrderStatus, note string, now time.Time, policy StatusPolicy) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !policy.CanTransition(order.Status, target) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, target)
	}

	order.Status = target
	order.StatusHistory = append(order.StatusHistory, models.StatusEntry{
		Status: target,
		Note:   strings.TrimSpace(note),
		Date:   now,
	})
	order.UpdatedAt = now
	return nil
}

// ApplyPaymentStatus changes the payment status without touching the order status.
func ApplyPaymentStatus(order *models.Order, status models.PaymentStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}
	order.PaymentStatus = status
	order.UpdatedAt = now
	return nil
}

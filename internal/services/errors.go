package services

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrTotalsMismatch        = errors.New("order totals do not balance")
	ErrEmptyOrder            = errors.New("order must contain at least one item")
	ErrProductUnavailable    = errors.New("product is unavailable")
	ErrPaymentMethodDisabled = errors.New("payment method is not available")

	ErrSectionNotFound    = errors.New("section not found")
	ErrInvalidSectionType = errors.New("invalid section type")
	ErrInvalidReorder     = errors.New("section ids must list every section exactly once")
	ErrVersionConflict    = errors.New("homepage was modified by someone else")

	ErrInvalidSettings = errors.New("invalid settings")
)

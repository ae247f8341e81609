package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/souqly/internal/middleware"
	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/services"
	"github.com/example/souqly/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func statusQuery(c *fiber.Ctx) (models.OrderStatus, error) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}
	return status, nil
}

// CreateOrder places an order for the authenticated user.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CheckoutInput
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.Checkout(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns a page of the caller's orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	status, err := statusQuery(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.UserContext(), services.OrderFilter{UserID: &userID, Status: status}, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       orders,
		"pagination": pg.Meta(total),
	})
}

// MyOrders returns every order of the caller, newest first.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.orders.All(c.UserContext(), services.OrderFilter{UserID: &userID})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// MyStats returns the caller's dashboard aggregates.
func (h *OrderHandler) MyStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.orders.UserStats(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// GetOrder returns a single order. Customers only see their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if order.UserID != userID && !middleware.IsAdmin(c) {
		return services.ErrOrderNotFound
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	Note   string             `json:"note"`
}

// UpdateStatus moves an order to a new fulfilment status.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), id, req.Status, req.Note)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
		"message": "order status updated",
	})
}

type updatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,oneof=pending paid"`
}

// UpdatePaymentStatus marks an order paid or pending.
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updatePaymentStatusRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdatePaymentStatus(c.UserContext(), id, req.PaymentStatus)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
		"message": "payment status updated",
	})
}

// NextStatuses lists the statuses an order may move to from its current one.
func (h *OrderHandler) NextStatuses(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"current": order.Status,
			"next":    h.orders.Policy().NextStatuses(order.Status),
		},
	})
}

// AdminStats returns the store wide dashboard aggregates.
func (h *OrderHandler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.orders.AdminStats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

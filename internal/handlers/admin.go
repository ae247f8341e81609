package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/middleware"
	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/services"
	"github.com/example/souqly/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{db: db, orders: orders}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.orders.AdminStats(c.UserContext())
	if err != nil {
		return err
	}

	var totalUsers int64
	if err := h.db.WithContext(c.UserContext()).Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"stats":       stats,
			"total_users": totalUsers,
		},
	})
}

// ListAllOrders returns all orders with pagination, filtering, and user info.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	status, err := statusQuery(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.UserContext(), services.OrderFilter{
		Status: status,
		Search: c.Query("search"),
	}, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       orders,
		"pagination": pg.Meta(total),
	})
}

type adminUserResponse struct {
	userResponse
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// ListAllUsers returns all registered users with pagination and search.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	db := h.db.WithContext(c.UserContext())
	query := db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", q, q, q)
	}
	if role := models.Role(c.Query("role")); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	type userStats struct {
		UserID     string
		OrderCount int64
		TotalSpent decimal.Decimal
	}
	var stats []userStats
	if err := db.Model(&models.Order{}).
		Select("user_id, count(*) as order_count, COALESCE(SUM(total), 0) as total_spent").
		Group("user_id").
		Scan(&stats).Error; err != nil {
		return err
	}

	statsMap := make(map[string]userStats, len(stats))
	for _, s := range stats {
		statsMap[s.UserID] = s
	}

	result := make([]adminUserResponse, len(users))
	for i := range users {
		result[i] = adminUserResponse{userResponse: toUserResponse(&users[i]), TotalSpent: decimal.Zero}
		if s, ok := statsMap[users[i].ID.String()]; ok {
			result[i].OrderCount = s.OrderCount
			result[i].TotalSpent = s.TotalSpent
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result,
		"pagination": pg.Meta(total),
	})
}

type updateRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=customer editor admin"`
}

// UpdateUserRole grants or revokes back-office access.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	if current, _ := middleware.GetCurrentUserID(c); current == id && req.Role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusBadRequest, "admins cannot demote themselves")
	}

	var user models.User
	db := h.db.WithContext(c.UserContext())
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID.String()).Str("role", string(req.Role)).Msg("admin: user role changed")

	return c.JSON(fiber.Map{"success": true, "data": toUserResponse(&user)})
}

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/middleware"
	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/utils"
)

// ProductHandler manages product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products with optional filters.
// Inactive products are only listed for back-office callers.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Product{})

	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query = query.Where("category_id = ?", id)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name_en ILIKE ? OR name_ar ILIKE ? OR slug ILIKE ?", q, q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if role, _ := middleware.GetCurrentRole(c); role != models.RoleAdmin || c.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	products := []models.Product{}
	if err := query.Preload("Category").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"pagination": pg.Meta(total),
	})
}

func (h *ProductHandler) findProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := h.db.WithContext(c.UserContext()).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// GetProduct loads a product with its category.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Slug           string          `json:"slug" validate:"required"`
	NameAr         string          `json:"name_ar" validate:"required"`
	NameEn         string          `json:"name_en" validate:"required"`
	DescriptionAr  string          `json:"description_ar"`
	DescriptionEn  string          `json:"description_en"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"image_url"`
	Stock          int             `json:"stock" validate:"gte=0"`
	Active         *bool           `json:"active"`
	Colors         []string        `json:"colors"`
	StorageOptions []string        `json:"storage_options"`
	CategoryID     *uuid.UUID      `json:"category_id"`
}

func (r productRequest) apply(product *models.Product) error {
	if !r.Price.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "price must be greater than 0")
	}

	product.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	product.NameAr = strings.TrimSpace(r.NameAr)
	product.NameEn = strings.TrimSpace(r.NameEn)
	product.DescriptionAr = r.DescriptionAr
	product.DescriptionEn = r.DescriptionEn
	product.Price = r.Price.Round(2)
	product.ImageURL = r.ImageURL
	product.Stock = r.Stock
	product.Colors = pq.StringArray(r.Colors)
	product.StorageOptions = pq.StringArray(r.StorageOptions)
	product.CategoryID = r.CategoryID
	product.Category = nil
	if r.Active != nil {
		product.Active = *r.Active
	}
	return nil
}

func (h *ProductHandler) checkCategory(c *fiber.Ctx, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := h.db.WithContext(c.UserContext()).Model(&models.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "category not found")
	}
	return nil
}

// CreateProduct persists a new product. Products are active unless stated otherwise.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.checkCategory(c, req.CategoryID); err != nil {
		return err
	}

	product := models.Product{Active: true}
	if err := req.apply(&product); err != nil {
		return err
	}
	if err := h.db.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct replaces the editable fields of a product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.checkCategory(c, req.CategoryID); err != nil {
		return err
	}
	if err := req.apply(product); err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Save(product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product. Order lines keep their copied name and price.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/utils"
)

// CatalogHandler manages categories.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type categoryRequest struct {
	NameAr   string `json:"name_ar" validate:"required"`
	NameEn   string `json:"name_en" validate:"required"`
	Slug     string `json:"slug" validate:"required"`
	ImageURL string `json:"image_url"`
}

func (r categoryRequest) apply(category *models.Category) {
	category.NameAr = strings.TrimSpace(r.NameAr)
	category.NameEn = strings.TrimSpace(r.NameEn)
	category.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	category.ImageURL = r.ImageURL
}

// ListCategories returns paginated categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	db := h.db.WithContext(c.UserContext())

	var total int64
	if err := db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}

	categories := []models.Category{}
	if err := db.Limit(pg.Limit).Offset(pg.Offset).Order("name_en asc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       categories,
		"pagination": pg.Meta(total),
	})
}

func (h *CatalogHandler) findCategory(c *fiber.Ctx) (*models.Category, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := h.db.WithContext(c.UserContext()).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return nil, err
	}
	return &category, nil
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.findCategory(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	var category models.Category
	req.apply(&category)
	if err := h.db.WithContext(c.UserContext()).Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory updates an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	category, err := h.findCategory(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}

	req.apply(category)
	if err := h.db.WithContext(c.UserContext()).Save(category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category by ID. Its products are kept uncategorized.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

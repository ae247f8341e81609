package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/services"
)

// SettingsHandler serves the singleton settings documents.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func getSettings[T any, P services.SettingsPtr[T]](c *fiber.Ctx, db *gorm.DB) error {
	settings, err := services.LoadSettings[T, P](c.UserContext(), db)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

func putSettings[T any, P services.SettingsPtr[T]](c *fiber.Ctx, db *gorm.DB) error {
	input := P(new(T))
	if err := c.BodyParser(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := services.SaveSettings[T, P](c.UserContext(), db, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// GetFeaturedDeals returns the deals strip settings (public endpoint).
func (h *SettingsHandler) GetFeaturedDeals(c *fiber.Ctx) error {
	return getSettings[models.FeaturedDealsSettings](c, h.db)
}

// UpdateFeaturedDeals replaces the deals strip settings.
func (h *SettingsHandler) UpdateFeaturedDeals(c *fiber.Ctx) error {
	return putSettings[models.FeaturedDealsSettings](c, h.db)
}

func (h *SettingsHandler) GetExclusiveOffers(c *fiber.Ctx) error {
	return getSettings[models.ExclusiveOffersSettings](c, h.db)
}

func (h *SettingsHandler) UpdateExclusiveOffers(c *fiber.Ctx) error {
	return putSettings[models.ExclusiveOffersSettings](c, h.db)
}

// GetPayment returns gateway settings including credentials (admin endpoint).
func (h *SettingsHandler) GetPayment(c *fiber.Ctx) error {
	return getSettings[models.PaymentSettings](c, h.db)
}

func (h *SettingsHandler) UpdatePayment(c *fiber.Ctx) error {
	return putSettings[models.PaymentSettings](c, h.db)
}

// PaymentMethods lists the methods customers may pick at checkout, without credentials.
func (h *SettingsHandler) PaymentMethods(c *fiber.Ctx) error {
	settings, err := services.LoadSettings[models.PaymentSettings](c.UserContext(), h.db)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"methods": settings.EnabledMethods(),
			"cod_fee": settings.CODFee,
		},
	})
}

func (h *SettingsHandler) GetShipping(c *fiber.Ctx) error {
	return getSettings[models.ShippingSettings](c, h.db)
}

func (h *SettingsHandler) UpdateShipping(c *fiber.Ctx) error {
	return putSettings[models.ShippingSettings](c, h.db)
}

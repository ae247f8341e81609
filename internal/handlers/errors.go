package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/services"
	"github.com/example/souqly/internal/utils"
)

var domainStatus = []struct {
	err    error
	status int
}{
	{services.ErrOrderNotFound, fiber.StatusNotFound},
	{services.ErrSectionNotFound, fiber.StatusNotFound},
	{gorm.ErrRecordNotFound, fiber.StatusNotFound},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrInvalidPaymentStatus, fiber.StatusBadRequest},
	{services.ErrInvalidSectionType, fiber.StatusBadRequest},
	{services.ErrInvalidReorder, fiber.StatusBadRequest},
	{services.ErrEmptyOrder, fiber.StatusBadRequest},
	{services.ErrProductUnavailable, fiber.StatusBadRequest},
	{services.ErrPaymentMethodDisabled, fiber.StatusBadRequest},
	{services.ErrInvalidSettings, fiber.StatusBadRequest},
	{utils.ErrPasswordTooShort, fiber.StatusBadRequest},
	{services.ErrInvalidTransition, fiber.StatusConflict},
	{services.ErrVersionConflict, fiber.StatusConflict},
	{gorm.ErrDuplicatedKey, fiber.StatusConflict},
}

// ErrorHandler renders every failed request as {success:false, message}.
// Unknown errors are logged and hidden behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		for _, m := range domainStatus {
			if errors.Is(err, m.err) {
				status = m.status
				message = err.Error()
				break
			}
		}
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("request failed")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

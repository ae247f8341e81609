package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/services"
	"github.com/example/souqly/internal/utils"
)

// HomepageHandler edits the homepage section list.
type HomepageHandler struct {
	homepage *services.HomepageService
}

// NewHomepageHandler constructs HomepageHandler.
func NewHomepageHandler(homepage *services.HomepageService) *HomepageHandler {
	return &HomepageHandler{homepage: homepage}
}

// expectedVersion returns the version the caller last read, taken from
// If-Match or else from the body. nil means the caller did not pin one.
func expectedVersion(c *fiber.Ctx, body *int) (*int, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if header == "" || header == "*" {
		return body, nil
	}

	raw := strings.Trim(strings.TrimPrefix(header, "W/"), `"`)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid If-Match header")
	}
	return &v, nil
}

func respondConfig(c *fiber.Ctx, status int, cfg *models.HomepageConfig, extra fiber.Map) error {
	c.Set(fiber.HeaderETag, fmt.Sprintf(`"%d"`, cfg.Version))
	body := fiber.Map{"success": true, "data": cfg}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// GetHomepage returns the active configuration with sections in display order.
func (h *HomepageHandler) GetHomepage(c *fiber.Ctx) error {
	cfg, err := h.homepage.Get(c.UserContext())
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, nil)
}

type replaceHomepageRequest struct {
	Sections []models.Section `json:"sections"`
	Active   *bool            `json:"active"`
	Version  *int             `json:"version"`
}

// ReplaceHomepage overwrites the whole section list.
func (h *HomepageHandler) ReplaceHomepage(c *fiber.Ctx) error {
	var req replaceHomepageRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	expected, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	cfg, err := h.homepage.Replace(c.UserContext(), expected, req.Sections, active)
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, nil)
}

type addSectionRequest struct {
	services.SectionInput
	Version *int `json:"version"`
}

// AddSection appends a section.
func (h *HomepageHandler) AddSection(c *fiber.Ctx) error {
	var req addSectionRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	expected, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}

	cfg, section, err := h.homepage.AddSection(c.UserContext(), expected, req.SectionInput)
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusCreated, cfg, fiber.Map{"section": section})
}

type updateSectionRequest struct {
	services.SectionPatch
	Version *int `json:"version"`
}

// UpdateSection merges the supplied fields into a section.
func (h *HomepageHandler) UpdateSection(c *fiber.Ctx) error {
	var req updateSectionRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	expected, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}

	cfg, section, err := h.homepage.UpdateSection(c.UserContext(), expected, c.Params("id"), req.SectionPatch)
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, fiber.Map{"section": section})
}

// DeleteSection removes a section.
func (h *HomepageHandler) DeleteSection(c *fiber.Ctx) error {
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return err
	}

	cfg, err := h.homepage.DeleteSection(c.UserContext(), expected, c.Params("id"))
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, fiber.Map{"message": "section deleted"})
}

type reorderRequest struct {
	SectionIDs []string `json:"section_ids" validate:"required"`
	Version    *int     `json:"version"`
}

// ReorderSections sets the display order from the given id list.
func (h *HomepageHandler) ReorderSections(c *fiber.Ctx) error {
	var req reorderRequest
	if err := utils.ParseAndValidate(c, &req); err != nil {
		return err
	}
	expected, err := expectedVersion(c, req.Version)
	if err != nil {
		return err
	}

	cfg, err := h.homepage.ReorderSections(c.UserContext(), expected, req.SectionIDs)
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, nil)
}

// DuplicateSection copies a section right after the original.
func (h *HomepageHandler) DuplicateSection(c *fiber.Ctx) error {
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return err
	}

	cfg, section, err := h.homepage.DuplicateSection(c.UserContext(), expected, c.Params("id"))
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusCreated, cfg, fiber.Map{"section": section})
}

// ToggleSection flips a section's visibility.
func (h *HomepageHandler) ToggleSection(c *fiber.Ctx) error {
	expected, err := expectedVersion(c, nil)
	if err != nil {
		return err
	}

	cfg, section, err := h.homepage.ToggleSection(c.UserContext(), expected, c.Params("id"))
	if err != nil {
		return err
	}
	return respondConfig(c, fiber.StatusOK, cfg, fiber.Map{"section": section})
}

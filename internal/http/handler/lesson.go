package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"spdocs/internal/service"
)

// GetLessonID mints the next sequential lesson code for a category.
// The category comes from the ?category= query parameter and must be
// non-blank; the check happens here, before any store interaction.
func GetLessonID(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")
		if strings.TrimSpace(category) == "" {
			return writeError(c, fiber.StatusBadRequest, "CATEGORY_REQUIRED", "category parameter is required and cannot be empty")
		}
		code, err := svc.NextLessonCode(c.UserContext(), category)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendString(code)
	}
}

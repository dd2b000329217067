package controller

import (
	"github.com/gofiber/fiber/v2"

	"malagahomes_backend/internal/model"
	"malagahomes_backend/pkg/database"
	"malagahomes_backend/pkg/utils/jwt"
)

// RecordPropertyView stores one visit to a listing page. Uniqueness per IP
// is handled by the model hooks.
func RecordPropertyView(c *fiber.Ctx) error {
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().Select("id").First(&property, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	view := model.PropertyView{
		PropertyID: property.ID,
		IP:         c.IP(),
		SessionID:  c.Cookies("session_id"),
		UserAgent:  c.Get("User-Agent"),
	}
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		view.UserID = &claims.UserID
	}

	if err := database.GetDB().Create(&view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record view",
		})
	}

	return c.SendStatus(fiber.StatusCreated)
}

// GetPropertyStats returns the rollup for one owned listing.
func GetPropertyStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().Select("id", "user_id").First(&property, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	if property.UserID != claims.UserID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authorized to view these stats",
		})
	}

	var stats model.PropertyStats
	if err := database.GetDB().FirstOrInit(&stats, model.PropertyStats{PropertyID: id}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch stats",
		})
	}

	return c.JSON(stats)
}

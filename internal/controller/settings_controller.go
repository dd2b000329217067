package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"malagahomes_backend/internal/model"
	"malagahomes_backend/pkg/database"
	"malagahomes_backend/pkg/r2"
	"malagahomes_backend/pkg/utils/jwt"
)

var avatarStorage *r2.Storage

func InitSettingsController(storage *r2.Storage) {
	avatarStorage = storage
}

const maxAvatarSize = 5 * 1024 * 1024

type ProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user.GetPublicProfile())
}

func UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Name = input.Name
	user.Phone = input.Phone

	if err := database.GetDB().Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(user.GetPublicProfile())
}

// UploadAvatar replaces the user's avatar in R2 and stores the new CDN URL.
func UploadAvatar(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}
	if file.Size > maxAvatarSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File size too large. Maximum size is 5MB",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	url, err := avatarStorage.UploadAvatar(c.Context(), user.Email, file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload avatar",
		})
	}

	if user.Avatar != "" {
		if err := avatarStorage.DeleteAvatar(c.Context(), user.Avatar); err != nil {
			slog.Warn("could not delete old avatar", "url", user.Avatar, "error", err)
		}
	}

	user.Avatar = url
	if err := database.GetDB().Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save avatar",
		})
	}

	return c.JSON(fiber.Map{"avatar": url})
}

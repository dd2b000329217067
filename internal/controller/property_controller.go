package controller

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"malagahomes_backend/internal/repository"
	"malagahomes_backend/internal/workflow"
	"malagahomes_backend/pkg/utils/jwt"
)

var (
	propertySaver   *workflow.Saver
	propertyRepo    *repository.PropertyRepository
	listingPageSize int
)

func InitPropertyController(saver *workflow.Saver, repo *repository.PropertyRepository, pageSize int) {
	propertySaver = saver
	propertyRepo = repo
	listingPageSize = pageSize
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// parsePage sanitizes the page query parameter to digits before parsing, so
// junk input falls back to the first page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(nonDigits.ReplaceAllString(raw, ""))
	if err != nil {
		return 0
	}
	return page
}

var propertyFormFields = []string{
	"phone", "country", "address1", "address2", "cp", "city", "state",
	"bedrooms", "bathroom", "garage", "ownerPrice", "title", "size",
	"description", "geoCode",
}

// formEcho returns the submitted values so a failed submission can be
// re-rendered with them.
func formEcho(c *fiber.Ctx) fiber.Map {
	value := fiber.Map{}
	for _, field := range propertyFormFields {
		value[field] = c.FormValue(field)
	}
	return value
}

// CreateProperty runs the create saga for the authenticated user and
// redirects to the new listing.
func CreateProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	file, _ := c.FormFile("img")

	property, fieldErrs, err := propertySaver.Create(c.Context(), claims.UserID,
		func(name string) string { return c.FormValue(name) }, file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}
	if fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fieldErrs,
			"value":  formEcho(c),
		})
	}

	return c.Redirect("/properties/"+property.ID, fiber.StatusSeeOther)
}

// UpdateProperty replaces an owned listing's fields; the cover image only
// when a replacement file was supplied.
func UpdateProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	file, _ := c.FormFile("img")

	property, fieldErrs, err := propertySaver.Update(c.Context(), claims.UserID, id,
		func(name string) string { return c.FormValue(name) }, file)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		case errors.Is(err, workflow.ErrNotOwner):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authorized to update this property",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update property",
			})
		}
	}
	if fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fieldErrs,
			"value":  formEcho(c),
		})
	}

	return c.Redirect("/properties/"+property.ID, fiber.StatusSeeOther)
}

// DeleteProperty removes an owned listing and its images.
func DeleteProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	if err := propertySaver.Delete(c.Context(), claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		case errors.Is(err, workflow.ErrNotOwner):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authorized to delete this property",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not delete property",
			})
		}
	}

	return c.Redirect("/properties", fiber.StatusSeeOther)
}

// GetProperty returns one listing with its fee, images and derived market
// price.
func GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	property, err := propertyRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}

	return c.JSON(fiber.Map{
		"property":     property,
		"market_price": property.MarketPrice(),
	})
}

// ListMyProperties lists the authenticated user's listings, newest update
// first.
func ListMyProperties(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	properties, err := propertyRepo.ListByOwner(c.Context(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(properties)
}

// ListProperties serves the paginated public listing.
func ListProperties(c *fiber.Ctx) error {
	page := parsePage(c.Query("page"))

	result, err := propertyRepo.ListPage(c.Context(), page, listingPageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(result)
}

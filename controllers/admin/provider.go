package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/store"
	"github.com/localserv/localserv-backend/utils"
)

var providers store.Store

// Init wires the admin handlers to a store.
func Init(s store.Store) {
	providers = s
}

type providerInput struct {
	Name          string `json:"name"`
	Service       string `json:"service"`
	Locality      string `json:"locality"`
	District      string `json:"district"`
	State         string `json:"state"`
	AvailableTime string `json:"available_time"`
	Phone         string `json:"phone"`
}

// CreateProvider lists a new service professional. The UID is assigned here
// and never changes; aggregates start at zero and are only ever touched by
// the recommend/review flows.
func CreateProvider(c *fiber.Ctx) error {
	input := new(providerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider data",
		})
	}

	if input.Name == "" || input.Service == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and service are required",
		})
	}

	provider := &models.Provider{
		UID:           utils.GenerateUID(),
		Name:          input.Name,
		Service:       input.Service,
		Locality:      input.Locality,
		District:      input.District,
		State:         input.State,
		AvailableTime: input.AvailableTime,
		Phone:         input.Phone,
	}

	if err := providers.CreateProvider(c.Context(), provider); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create provider",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(provider)
}

// UpdateProvider changes a provider's display fields. The aggregate fields
// are not updatable through this endpoint.
func UpdateProvider(c *fiber.Ctx) error {
	uid := c.Params("uid")

	updateData := make(map[string]interface{})
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid provider data",
		})
	}

	allowedFields := map[string]bool{
		"name":           true,
		"service":        true,
		"locality":       true,
		"district":       true,
		"state":          true,
		"available_time": true,
		"phone":          true,
	}

	updateMap := make(map[string]interface{})
	for key, value := range updateData {
		if allowedFields[key] {
			updateMap[key] = value
		}
	}
	if len(updateMap) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No updatable fields provided",
		})
	}

	if err := providers.UpdateProvider(c.Context(), uid, updateMap); err != nil {
		if errors.Is(err, store.ErrProviderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Provider not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update provider",
		})
	}

	provider, err := providers.GetProvider(c.Context(), uid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch provider",
		})
	}
	return c.JSON(provider)
}

// DeleteProvider removes a listing along with its reviews and
// recommendations.
func DeleteProvider(c *fiber.Ctx) error {
	uid := c.Params("uid")

	if err := providers.DeleteProvider(c.Context(), uid); err != nil {
		if errors.Is(err, store.ErrProviderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Provider not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete provider",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadProviderPhoto uploads a card photo to Cloudinary and saves the URL
// on the listing.
func UploadProviderPhoto(c *fiber.Ctx) error {
	uid := c.Params("uid")

	if _, err := providers.GetProvider(c.Context(), uid); err != nil {
		if errors.Is(err, store.ErrProviderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Provider not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch provider",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read photo",
		})
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, uid, "providers")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload photo",
		})
	}

	if err := providers.UpdateProvider(c.Context(), uid, map[string]interface{}{"photo_url": url}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save photo URL",
		})
	}

	return c.JSON(fiber.Map{
		"photo_url": url,
	})
}

package consumer

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/services"
	"github.com/localserv/localserv-backend/store"
)

var (
	providers  store.Store
	recommends *services.RecommendationService
	reviews    *services.ReviewService
)

// Init wires the consumer handlers to a store. Called once from main with
// the Gorm store; tests swap in the in-memory one.
func Init(s store.Store) {
	providers = s
	recommends = services.NewRecommendationService(s)
	reviews = services.NewReviewService(s)
}

// identityFromCtx snapshots the caller's identity from the JWT locals, or
// returns nil for an anonymous request.
func identityFromCtx(c *fiber.Ctx) *services.Identity {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil
	}
	name, _ := c.Locals("userName").(string)
	return &services.Identity{UserID: userID, Name: name}
}

// svcError maps a service failure onto the HTTP response the UI shows as a
// toast. Anything unrecognized is a backend failure the user may retry.
func svcError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please login first.",
		})
	case errors.Is(err, services.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please give a star rating between 1 and 5.",
		})
	case errors.Is(err, store.ErrProviderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider not found",
		})
	case errors.Is(err, store.ErrAlreadyRecommended):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already recommended this provider.",
		})
	case errors.Is(err, store.ErrDuplicateReview):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already submitted a review for this provider.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/controllers/consumer"
	"github.com/localserv/localserv-backend/middleware"
)

// SetupProviderRoutes configures the public directory and the recommend and
// review actions. Everything runs behind the optional-auth middleware:
// browsing works anonymously, while recommend/review answer 401 with a
// login prompt instead of a hard gate.
func SetupProviderRoutes(app *fiber.App) {
	providers := app.Group("/providers", middleware.Optional())

	providers.Get("/", consumer.GetProviders)
	providers.Get("/featured", consumer.GetFeaturedProviders)
	providers.Get("/regions", consumer.GetProviderRegions)
	providers.Get("/tags", consumer.GetReviewTags)
	providers.Get("/:uid", consumer.GetProviderDetails)

	providers.Post("/:uid/recommend", consumer.RecommendProvider)

	providers.Get("/:uid/reviews", consumer.GetProviderReviews)
	providers.Get("/:uid/reviews/stats", consumer.GetProviderReviewStats)
	providers.Post("/:uid/reviews", consumer.CreateReview)
}

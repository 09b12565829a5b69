package consumer

import (
	"github.com/gofiber/fiber/v2"
)

// RecommendProvider records a one-per-account recommendation and returns
// the new count for the optimistic counter in the UI. The server count is
// the source of truth; the client reconciles to it rather than adding.
func RecommendProvider(c *fiber.Ctx) error {
	uid := c.Params("uid")

	count, err := recommends.Recommend(c.Context(), uid, identityFromCtx(c))
	if err != nil {
		return svcError(c, err, "Failed to recommend. Try again.")
	}

	return c.JSON(fiber.Map{
		"message":         "Thanks for recommending!",
		"recommend_count": count,
	})
}

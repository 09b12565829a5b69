package consumer

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/redis"
	"github.com/localserv/localserv-backend/store"
)

// GetProviders returns the provider directory, filtered the way the
// category page filters it: service category slug, state, district and a
// free-text search term.
func GetProviders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := store.ProviderFilter{
		Category: c.Query("category"),
		State:    c.Query("state"),
		District: c.Query("district"),
		Query:    c.Query("q"),
		Page:     page,
		Limit:    limit,
	}

	list, count, err := providers.ListProviders(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch providers",
		})
	}

	return c.JSON(fiber.Map{
		"providers": list,
		"total":     count,
		"page":      page,
		"limit":     limit,
		"pages":     (int(count) + limit - 1) / limit,
	})
}

// GetProviderRegions returns the distinct states and their districts for
// the filter dropdowns.
func GetProviderRegions(c *fiber.Ctx) error {
	states, districts, err := providers.ProviderRegions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch regions",
		})
	}
	return c.JSON(fiber.Map{
		"states":    states,
		"districts": districts,
	})
}

// GetProviderDetails returns one provider together with its reviews, the
// users who recommended it and whether the caller already did. The
// aggregates come straight off the provider record, not recomputed from the
// review list.
func GetProviderDetails(c *fiber.Ctx) error {
	uid := c.Params("uid")

	provider, err := providers.GetProvider(c.Context(), uid)
	if err != nil {
		return svcError(c, err, "Failed to fetch provider")
	}

	reviewList, err := reviews.ProviderReviews(c.Context(), uid)
	if err != nil {
		return svcError(c, err, "Failed to fetch reviews")
	}

	recommendedBy, err := providers.RecommendedBy(c.Context(), uid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recommendations",
		})
	}

	hasRecommended, err := recommends.HasRecommended(c.Context(), uid, identityFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recommendations",
		})
	}

	return c.JSON(fiber.Map{
		"provider":        provider,
		"reviews":         reviewList,
		"recommended_by":  recommendedBy,
		"has_recommended": hasRecommended,
	})
}

// GetFeaturedProviders returns the best-rated providers, cached in Redis
// for a few minutes since the home page hits this on every load.
func GetFeaturedProviders(c *fiber.Ctx) error {
	const cacheKey = "providers:featured"

	if redis.Client != nil {
		if body, err := redis.GetCachedJSON(cacheKey); err == nil && body != nil {
			c.Set("Content-Type", "application/json")
			return c.Send(body)
		}
	}

	list, _, err := providers.ListProviders(c.Context(), store.ProviderFilter{
		Sort:  "rating",
		Limit: 10,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch featured providers",
		})
	}

	payload := fiber.Map{"providers": list}
	if redis.Client != nil {
		if body, err := json.Marshal(payload); err == nil {
			redis.CacheJSON(cacheKey, body, 5*time.Minute)
		}
	}
	return c.JSON(payload)
}

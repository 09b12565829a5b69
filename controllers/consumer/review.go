package consumer

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/utils"
)

type reviewInput struct {
	Rating  int      `json:"rating"`
	Tags    []string `json:"tags"`
	Comment string   `json:"comment"`
}

// CreateReview adds a new review for a provider
func CreateReview(c *fiber.Ctx) error {
	uid := c.Params("uid")

	input := new(reviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review data",
		})
	}

	result, err := reviews.SubmitReview(c.Context(), uid, identityFromCtx(c), input.Rating, input.Tags, input.Comment)
	if err != nil {
		return svcError(c, err, "Failed to submit review. Try again.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Review submitted successfully!",
		"review_id":  result.ReviewID,
		"avg_rating": result.AvgRating,
	})
}

type reviewResponse struct {
	models.Review
	TimestampIST string `json:"timestamp_ist"`
}

// GetProviderReviews retrieves all reviews for a specific provider
func GetProviderReviews(c *fiber.Ctx) error {
	uid := c.Params("uid")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	all, err := reviews.ProviderReviews(c.Context(), uid)
	if err != nil {
		return svcError(c, err, "Failed to fetch reviews")
	}

	count := len(all)
	start := (page - 1) * limit
	if start > count {
		start = count
	}
	end := start + limit
	if end > count {
		end = count
	}

	pageItems := make([]reviewResponse, 0, end-start)
	for _, r := range all[start:end] {
		pageItems = append(pageItems, reviewResponse{
			Review:       r,
			TimestampIST: utils.ToIST(r.CreatedAt).Format("2006-01-02 15:04:05"),
		})
	}

	return c.JSON(fiber.Map{
		"reviews": pageItems,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (count + limit - 1) / limit,
	})
}

// GetProviderReviewStats retrieves review statistics for a provider
func GetProviderReviewStats(c *fiber.Ctx) error {
	uid := c.Params("uid")

	stats, err := reviews.Stats(c.Context(), uid)
	if err != nil {
		return svcError(c, err, "Failed to fetch review stats")
	}
	return c.JSON(stats)
}

// GetReviewTags returns the fixed tag vocabulary the review form renders.
func GetReviewTags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tags": models.TagVocabulary,
	})
}

package services

import (
	"context"
	"time"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/store"
)

// ReviewService records one review per user per provider and keeps the
// provider's average rating consistent with the full review history.
type ReviewService struct {
	store store.Store
}

func NewReviewService(s store.Store) *ReviewService {
	return &ReviewService{store: s}
}

// ReviewResult is what a successful submission reports back to the caller.
type ReviewResult struct {
	ReviewID  uint    `json:"review_id"`
	AvgRating float64 `json:"avg_rating"`
}

// SubmitReview validates and stores a review, folding its rating into the
// provider's aggregates in the same store transaction. Tags outside the
// fixed vocabulary are dropped; an empty display name becomes "Anonymous".
func (s *ReviewService) SubmitReview(ctx context.Context, providerUID string, identity *Identity, rating int, tags []string, comment string) (*ReviewResult, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.store.GetProvider(ctx, providerUID); err != nil {
		return nil, err
	}

	// The unique key on (provider_uid, user_id) is the real guard; this
	// check just gives a clean answer without burning a review insert.
	reviewed, err := s.store.HasReviewed(ctx, providerUID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, store.ErrDuplicateReview
	}

	userName := identity.Name
	if userName == "" {
		userName = "Anonymous"
	}

	review := &models.Review{
		ProviderUID: providerUID,
		UserID:      identity.UserID,
		UserName:    userName,
		Rating:      rating,
		Tags:        models.FilterTags(tags),
		Comment:     comment,
		CreatedAt:   time.Now(),
	}

	avg, err := s.store.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}
	return &ReviewResult{ReviewID: review.ID, AvgRating: avg}, nil
}

// ProviderReviews returns the provider's reviews, newest first.
func (s *ReviewService) ProviderReviews(ctx context.Context, providerUID string) ([]models.Review, error) {
	if _, err := s.store.GetProvider(ctx, providerUID); err != nil {
		return nil, err
	}
	return s.store.ListReviews(ctx, providerUID)
}

// ReviewStats is the per-star breakdown shown on a provider's page.
type ReviewStats struct {
	ProviderUID  string   `json:"provider_uid"`
	TotalReviews int64    `json:"total_reviews"`
	AvgRating    float64  `json:"average_rating"`
	StarCounts   [5]int64 `json:"star_counts"` // index 0 = 1 star
}

// Stats builds the rating histogram from the review list and reads the
// persisted average off the provider document, per the read-side contract:
// displayed aggregates are service-maintained fields, not recomputed views.
func (s *ReviewService) Stats(ctx context.Context, providerUID string) (*ReviewStats, error) {
	p, err := s.store.GetProvider(ctx, providerUID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, providerUID)
	if err != nil {
		return nil, err
	}
	stats := &ReviewStats{
		ProviderUID:  providerUID,
		TotalReviews: int64(len(reviews)),
		AvgRating:    p.AvgRating,
	}
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			stats.StarCounts[r.Rating-1]++
		}
	}
	return stats, nil
}

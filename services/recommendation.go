package services

import (
	"context"

	"github.com/localserv/localserv-backend/store"
)

// RecommendationService lets each authenticated user raise a provider's
// recommend count exactly once per account.
type RecommendationService struct {
	store store.Store
}

func NewRecommendationService(s store.Store) *RecommendationService {
	return &RecommendationService{store: s}
}

// Recommend records user's endorsement of the provider and returns the new
// recommend count. Dedup is per account, backed by the persisted membership
// set, so a second device or session cannot recommend again.
func (s *RecommendationService) Recommend(ctx context.Context, providerUID string, identity *Identity) (int64, error) {
	if identity == nil {
		return 0, ErrUnauthenticated
	}
	if _, err := s.store.GetProvider(ctx, providerUID); err != nil {
		return 0, err
	}
	return s.store.Recommend(ctx, providerUID, identity.UserID)
}

// HasRecommended reports whether the caller already recommended the provider.
// Anonymous callers have trivially not recommended anything.
func (s *RecommendationService) HasRecommended(ctx context.Context, providerUID string, identity *Identity) (bool, error) {
	if identity == nil {
		return false, nil
	}
	return s.store.HasRecommended(ctx, providerUID, identity.UserID)
}

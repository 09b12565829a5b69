package store

import (
	"context"
	"errors"

	"github.com/localserv/localserv-backend/models"
)

var (
	ErrProviderNotFound   = errors.New("provider not found")
	ErrAlreadyRecommended = errors.New("provider already recommended by this user")
	ErrDuplicateReview    = errors.New("provider already reviewed by this user")
)

// ProviderFilter narrows a directory listing. Zero values mean "no filter".
type ProviderFilter struct {
	Category string // slugified service name, e.g. "ac-repair"
	State    string
	District string
	Query    string // free-text over name/service/locality/district/state
	Sort     string // "" for name, "rating" for best-rated first
	Page     int
	Limit    int
}

// Store is the persistence contract the core services and handlers run
// against. Gorm is the production implementation; Memory backs the tests.
type Store interface {
	GetProvider(ctx context.Context, uid string) (*models.Provider, error)
	ListProviders(ctx context.Context, f ProviderFilter) ([]models.Provider, int64, error)
	ProviderRegions(ctx context.Context) (states []string, districts map[string][]string, err error)
	CreateProvider(ctx context.Context, p *models.Provider) error
	UpdateProvider(ctx context.Context, uid string, fields map[string]interface{}) error
	DeleteProvider(ctx context.Context, uid string) error

	// Recommend inserts the membership row and bumps recommend_count as one
	// transactional update, with the increment applied server-side. Returns
	// the new count.
	Recommend(ctx context.Context, uid string, userID uint) (int64, error)
	HasRecommended(ctx context.Context, uid string, userID uint) (bool, error)
	RecommendedBy(ctx context.Context, uid string) ([]uint, error)

	ListReviews(ctx context.Context, uid string) ([]models.Review, error)
	HasReviewed(ctx context.Context, uid string, userID uint) (bool, error)
	// CreateReview inserts the review and folds its rating into the
	// provider's rating_sum/rating_count/avg_rating in one transaction.
	// Returns the new average.
	CreateReview(ctx context.Context, r *models.Review) (float64, error)

	// ReconcileAggregates recomputes every provider's aggregates from the
	// review and recommendation tables.
	ReconcileAggregates(ctx context.Context) error
}

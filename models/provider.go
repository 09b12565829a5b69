package models

import (
	"time"
)

// Provider is one listed service professional. UID is assigned once at
// creation and never changes; the aggregate columns (RecommendCount,
// RatingSum, RatingCount, AvgRating) are only written through the store.
type Provider struct {
	UID           string `json:"uid" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null"`
	Service       string `json:"service" gorm:"not null;index"`
	Locality      string `json:"locality"`
	District      string `json:"district" gorm:"index"`
	State         string `json:"state" gorm:"index"`
	AvailableTime string `json:"available_time,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`

	RecommendCount int64   `json:"recommend_count" gorm:"not null;default:0"`
	RatingSum      int64   `json:"-" gorm:"not null;default:0"`
	RatingCount    int64   `json:"rating_count" gorm:"not null;default:0"`
	AvgRating      float64 `json:"avg_rating" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recommendation is one user's endorsement of one provider. The unique index
// is what makes recommend once-per-account rather than once-per-device.
type Recommendation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProviderUID string    `json:"provider_uid" gorm:"uniqueIndex:idx_provider_recommender;not null"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_provider_recommender;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

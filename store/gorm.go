package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/localserv/localserv-backend/models"
)

// Gorm persists providers, reviews and recommendations through GORM.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) GetProvider(ctx context.Context, uid string) (*models.Provider, error) {
	var p models.Provider
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Gorm) ListProviders(ctx context.Context, f ProviderFilter) ([]models.Provider, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Provider{})

	if f.Category != "" {
		q = q.Where("lower(replace(service, ' ', '-')) = ?", strings.ToLower(f.Category))
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.District != "" {
		q = q.Where("district = ?", f.District)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where(
			"name ILIKE ? OR service ILIKE ? OR locality ILIKE ? OR district ILIKE ? OR state ILIKE ?",
			like, like, like, like, like,
		)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}

	order := "name"
	if f.Sort == "rating" {
		order = "avg_rating DESC, recommend_count DESC"
	}

	var providers []models.Provider
	if err := q.Order(order).Limit(limit).Offset((page - 1) * limit).Find(&providers).Error; err != nil {
		return nil, 0, err
	}
	return providers, count, nil
}

func (s *Gorm) ProviderRegions(ctx context.Context) ([]string, map[string][]string, error) {
	var rows []struct {
		State    string
		District string
	}
	err := s.db.WithContext(ctx).Model(&models.Provider{}).
		Distinct("state", "district").
		Where("state <> ''").
		Order("state, district").
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var states []string
	districts := make(map[string][]string)
	for _, r := range rows {
		if _, ok := districts[r.State]; !ok {
			states = append(states, r.State)
		}
		if r.District != "" {
			districts[r.State] = append(districts[r.State], r.District)
		} else if _, ok := districts[r.State]; !ok {
			districts[r.State] = nil
		}
	}
	return states, districts, nil
}

func (s *Gorm) CreateProvider(ctx context.Context, p *models.Provider) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Gorm) UpdateProvider(ctx context.Context, uid string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Provider{}).Where("uid = ?", uid).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func (s *Gorm) DeleteProvider(ctx context.Context, uid string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_uid = ?", uid).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("provider_uid = ?", uid).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}
		res := tx.Where("uid = ?", uid).Delete(&models.Provider{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProviderNotFound
		}
		return nil
	})
}

func (s *Gorm) Recommend(ctx context.Context, uid string, userID uint) (int64, error) {
	var newCount int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := models.Recommendation{ProviderUID: uid, UserID: userID}
		if err := tx.Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRecommended
			}
			return err
		}

		// Server-side add, not read-modify-write: concurrent recommenders
		// from other sessions must not lose increments.
		res := tx.Model(&models.Provider{}).Where("uid = ?", uid).
			UpdateColumn("recommend_count", gorm.Expr("recommend_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProviderNotFound
		}

		var p models.Provider
		if err := tx.Select("recommend_count").Where("uid = ?", uid).First(&p).Error; err != nil {
			return err
		}
		newCount = p.RecommendCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

func (s *Gorm) HasRecommended(ctx context.Context, uid string, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("provider_uid = ? AND user_id = ?", uid, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Gorm) RecommendedBy(ctx context.Context, uid string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("provider_uid = ?", uid).
		Order("created_at").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *Gorm) ListReviews(ctx context.Context, uid string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("provider_uid = ?", uid).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Gorm) HasReviewed(ctx context.Context, uid string, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("provider_uid = ? AND user_id = ?", uid, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Gorm) CreateReview(ctx context.Context, r *models.Review) (float64, error) {
	var newAvg float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return err
		}

		// All three expressions read the pre-update column values, so the
		// new average is (old_sum + rating) / (old_count + 1).
		res := tx.Model(&models.Provider{}).Where("uid = ?", r.ProviderUID).
			UpdateColumns(map[string]interface{}{
				"rating_sum":   gorm.Expr("rating_sum + ?", r.Rating),
				"rating_count": gorm.Expr("rating_count + 1"),
				"avg_rating":   gorm.Expr("(rating_sum + ?) * 1.0 / (rating_count + 1)", r.Rating),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProviderNotFound
		}

		var p models.Provider
		if err := tx.Select("avg_rating").Where("uid = ?", r.ProviderUID).First(&p).Error; err != nil {
			return err
		}
		newAvg = p.AvgRating
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newAvg, nil
}

func (s *Gorm) ReconcileAggregates(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			UPDATE providers p SET
				rating_sum   = COALESCE(r.sum, 0),
				rating_count = COALESCE(r.cnt, 0),
				avg_rating   = COALESCE(r.avg, 0)
			FROM (
				SELECT provider_uid, SUM(rating) AS sum, COUNT(*) AS cnt, AVG(rating) AS avg
				FROM reviews GROUP BY provider_uid
			) r
			WHERE p.uid = r.provider_uid
			  AND (p.rating_sum <> COALESCE(r.sum, 0)
			   OR p.rating_count <> COALESCE(r.cnt, 0))
		`).Error
		if err != nil {
			return err
		}
		return tx.Exec(`
			UPDATE providers p SET recommend_count = COALESCE(c.cnt, 0)
			FROM (
				SELECT provider_uid, COUNT(*) AS cnt
				FROM recommendations GROUP BY provider_uid
			) c
			WHERE p.uid = c.provider_uid
			  AND p.recommend_count <> COALESCE(c.cnt, 0)
		`).Error
	})
}

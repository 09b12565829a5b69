package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/utils"
)

// Memory is used for tests and local scenarios. It mirrors the semantics of
// the Gorm store, including the once-per-user constraints.
type Memory struct {
	mu           sync.RWMutex
	providers    map[string]*models.Provider
	reviews      map[string][]models.Review
	recommenders map[string][]uint
	nextReviewID uint
}

func NewMemory() *Memory {
	return &Memory{
		providers:    make(map[string]*models.Provider),
		reviews:      make(map[string][]models.Review),
		recommenders: make(map[string][]uint),
	}
}

func (s *Memory) GetProvider(ctx context.Context, uid string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[uid]
	if !ok {
		return nil, ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

func matchesQuery(p *models.Provider, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{p.Name, p.Service, p.Locality, p.District, p.State} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (s *Memory) ListProviders(ctx context.Context, f ProviderFilter) ([]models.Provider, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Provider
	for _, p := range s.providers {
		if f.Category != "" && utils.Slugify(p.Service) != strings.ToLower(f.Category) {
			continue
		}
		if f.State != "" && p.State != f.State {
			continue
		}
		if f.District != "" && p.District != f.District {
			continue
		}
		if f.Query != "" && !matchesQuery(p, f.Query) {
			continue
		}
		matched = append(matched, *p)
	}
	if f.Sort == "rating" {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].AvgRating != matched[j].AvgRating {
				return matched[i].AvgRating > matched[j].AvgRating
			}
			return matched[i].RecommendCount > matched[j].RecommendCount
		})
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	total := int64(len(matched))
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *Memory) ProviderRegions(ctx context.Context) ([]string, map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	districts := make(map[string][]string)
	for _, p := range s.providers {
		if p.State == "" {
			continue
		}
		if p.District != "" && !contains(districts[p.State], p.District) {
			districts[p.State] = append(districts[p.State], p.District)
		} else if _, ok := districts[p.State]; !ok {
			districts[p.State] = nil
		}
	}
	var states []string
	for st := range districts {
		states = append(states, st)
		sort.Strings(districts[st])
	}
	sort.Strings(states)
	return states, districts, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *Memory) CreateProvider(ctx context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.providers[p.UID] = &cp
	return nil
}

func (s *Memory) UpdateProvider(ctx context.Context, uid string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[uid]
	if !ok {
		return ErrProviderNotFound
	}
	for key, value := range fields {
		str, _ := value.(string)
		switch key {
		case "name":
			p.Name = str
		case "service":
			p.Service = str
		case "locality":
			p.Locality = str
		case "district":
			p.District = str
		case "state":
			p.State = str
		case "available_time":
			p.AvailableTime = str
		case "phone":
			p.Phone = str
		case "photo_url":
			p.PhotoURL = str
		}
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) DeleteProvider(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[uid]; !ok {
		return ErrProviderNotFound
	}
	delete(s.providers, uid)
	delete(s.reviews, uid)
	delete(s.recommenders, uid)
	return nil
}

func (s *Memory) Recommend(ctx context.Context, uid string, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[uid]
	if !ok {
		return 0, ErrProviderNotFound
	}
	for _, id := range s.recommenders[uid] {
		if id == userID {
			return 0, ErrAlreadyRecommended
		}
	}
	s.recommenders[uid] = append(s.recommenders[uid], userID)
	p.RecommendCount++
	return p.RecommendCount, nil
}

func (s *Memory) HasRecommended(ctx context.Context, uid string, userID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.recommenders[uid] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) RecommendedBy(ctx context.Context, uid string) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint, len(s.recommenders[uid]))
	copy(ids, s.recommenders[uid])
	return ids, nil
}

func (s *Memory) ListReviews(ctx context.Context, uid string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := make([]models.Review, len(s.reviews[uid]))
	copy(reviews, s.reviews[uid])
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

func (s *Memory) HasReviewed(ctx context.Context, uid string, userID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews[uid] {
		if r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) CreateReview(ctx context.Context, r *models.Review) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[r.ProviderUID]
	if !ok {
		return 0, ErrProviderNotFound
	}
	for _, existing := range s.reviews[r.ProviderUID] {
		if existing.UserID == r.UserID {
			return 0, ErrDuplicateReview
		}
	}
	s.nextReviewID++
	r.ID = s.nextReviewID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.reviews[r.ProviderUID] = append(s.reviews[r.ProviderUID], *r)

	p.RatingSum += int64(r.Rating)
	p.RatingCount++
	p.AvgRating = float64(p.RatingSum) / float64(p.RatingCount)
	return p.AvgRating, nil
}

func (s *Memory) ReconcileAggregates(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uid, p := range s.providers {
		var sum int64
		for _, r := range s.reviews[uid] {
			sum += int64(r.Rating)
		}
		p.RatingSum = sum
		p.RatingCount = int64(len(s.reviews[uid]))
		if p.RatingCount > 0 {
			p.AvgRating = float64(sum) / float64(p.RatingCount)
		} else {
			p.AvgRating = 0
		}
		p.RecommendCount = int64(len(s.recommenders[uid]))
	}
	return nil
}

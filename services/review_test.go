package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/localserv/localserv-backend/store"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubmitReview_AverageScenario(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p1")
	svc := NewReviewService(mem)
	ctx := context.Background()

	u1 := &Identity{UserID: 1, Name: "Asha"}
	u2 := &Identity{UserID: 2, Name: "Vikram"}

	res, err := svc.SubmitReview(ctx, "p1", u1, 4, nil, "Quick and tidy work")
	if err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if !almostEqual(res.AvgRating, 4.0) {
		t.Fatalf("expected avg 4.0 after one review, got %v", res.AvgRating)
	}

	res, err = svc.SubmitReview(ctx, "p1", u2, 2, nil, "")
	if err != nil {
		t.Fatalf("second review failed: %v", err)
	}
	if !almostEqual(res.AvgRating, 3.0) {
		t.Fatalf("expected avg 3.0 after two reviews, got %v", res.AvgRating)
	}

	// u1's second attempt must not change the average.
	if _, err := svc.SubmitReview(ctx, "p1", u1, 5, nil, "changed my mind"); !errors.Is(err, store.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
	p, _ := mem.GetProvider(ctx, "p1")
	if !almostEqual(p.AvgRating, 3.0) {
		t.Fatalf("duplicate review changed avg to %v", p.AvgRating)
	}
	reviewList, _ := mem.ListReviews(ctx, "p1")
	if len(reviewList) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviewList))
	}
}

func TestSubmitReview_OrderIndependentAverage(t *testing.T) {
	ratings := []int{5, 1, 3, 4, 2}
	want := 3.0

	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	for _, order := range orders {
		mem := store.NewMemory()
		seedProvider(t, mem, "p1")
		svc := NewReviewService(mem)

		for _, idx := range order {
			user := &Identity{UserID: uint(idx + 1), Name: "User"}
			if _, err := svc.SubmitReview(context.Background(), "p1", user, ratings[idx], nil, ""); err != nil {
				t.Fatalf("review in order %v failed: %v", order, err)
			}
		}
		p, _ := mem.GetProvider(context.Background(), "p1")
		if !almostEqual(p.AvgRating, want) {
			t.Fatalf("order %v produced avg %v, want %v", order, p.AvgRating, want)
		}
	}
}

func TestSubmitReview_InvalidRating(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p1")
	svc := NewReviewService(mem)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := svc.SubmitReview(ctx, "p1", &Identity{UserID: 1}, rating, nil, "")
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}

	reviewList, _ := mem.ListReviews(ctx, "p1")
	if len(reviewList) != 0 {
		t.Fatalf("invalid ratings created %d reviews", len(reviewList))
	}
}

func TestSubmitReview_Unauthenticated(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p1")
	svc := NewReviewService(mem)

	_, err := svc.SubmitReview(context.Background(), "p1", nil, 5, nil, "great")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	reviewList, _ := mem.ListReviews(context.Background(), "p1")
	if len(reviewList) != 0 {
		t.Fatal("anonymous review was stored")
	}
}

func TestSubmitReview_UnknownProvider(t *testing.T) {
	svc := NewReviewService(store.NewMemory())

	_, err := svc.SubmitReview(context.Background(), "missing", &Identity{UserID: 1}, 4, nil, "")
	if !errors.Is(err, store.ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestSubmitReview_TagFilteringAndAnonymous(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p1")
	svc := NewReviewService(mem)
	ctx := context.Background()

	tags := []string{"Great Service", "Totally Made Up", "Knowledgeable", "Great Service"}
	if _, err := svc.SubmitReview(ctx, "p1", &Identity{UserID: 9}, 5, tags, "solid"); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	reviewList, _ := mem.ListReviews(ctx, "p1")
	if len(reviewList) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviewList))
	}
	r := reviewList[0]
	if len(r.Tags) != 2 || r.Tags[0] != "Great Service" || r.Tags[1] != "Knowledgeable" {
		t.Fatalf("expected unknown and duplicate tags dropped, got %v", r.Tags)
	}
	if r.UserName != "Anonymous" {
		t.Fatalf("expected display name fallback 'Anonymous', got %q", r.UserName)
	}
}

func TestStats(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p1")
	svc := NewReviewService(mem)
	ctx := context.Background()

	for i, rating := range []int{5, 5, 4, 1} {
		if _, err := svc.SubmitReview(ctx, "p1", &Identity{UserID: uint(i + 1), Name: "U"}, rating, nil, ""); err != nil {
			t.Fatalf("review %d failed: %v", i, err)
		}
	}

	stats, err := svc.Stats(ctx, "p1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalReviews != 4 {
		t.Fatalf("expected 4 reviews, got %d", stats.TotalReviews)
	}
	if !almostEqual(stats.AvgRating, 3.75) {
		t.Fatalf("expected avg 3.75, got %v", stats.AvgRating)
	}
	want := [5]int64{1, 0, 0, 1, 2}
	if stats.StarCounts != want {
		t.Fatalf("expected star counts %v, got %v", want, stats.StarCounts)
	}
}

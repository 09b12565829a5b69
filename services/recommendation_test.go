package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/store"
)

func seedProvider(t *testing.T, s *store.Memory, uid string) {
	t.Helper()
	err := s.CreateProvider(context.Background(), &models.Provider{
		UID:      uid,
		Name:     "Ramesh Kumar",
		Service:  "AC Repair",
		Locality: "Andheri",
		District: "Mumbai",
		State:    "Maharashtra",
	})
	if err != nil {
		t.Fatalf("seed provider: %v", err)
	}
}

func TestRecommend_OncePerUser(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p2")
	svc := NewRecommendationService(mem)
	ctx := context.Background()

	u3 := &Identity{UserID: 3, Name: "User Three"}

	count, err := svc.Recommend(ctx, "p2", u3)
	if err != nil {
		t.Fatalf("first recommend failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected recommend count 1, got %d", count)
	}

	recommenders, err := mem.RecommendedBy(ctx, "p2")
	if err != nil {
		t.Fatalf("recommendedBy failed: %v", err)
	}
	if len(recommenders) != 1 || recommenders[0] != 3 {
		t.Fatalf("expected membership [3], got %v", recommenders)
	}

	// Second attempt from the same account must not increment.
	if _, err := svc.Recommend(ctx, "p2", u3); !errors.Is(err, store.ErrAlreadyRecommended) {
		t.Fatalf("expected ErrAlreadyRecommended, got %v", err)
	}
	p, _ := mem.GetProvider(ctx, "p2")
	if p.RecommendCount != 1 {
		t.Fatalf("duplicate recommend changed count to %d", p.RecommendCount)
	}
}

func TestRecommend_Unauthenticated(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p2")
	svc := NewRecommendationService(mem)
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, "p2", &Identity{UserID: 3}); err != nil {
		t.Fatalf("seed recommend failed: %v", err)
	}

	if _, err := svc.Recommend(ctx, "p2", nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous caller, got %v", err)
	}

	p, _ := mem.GetProvider(ctx, "p2")
	if p.RecommendCount != 1 {
		t.Fatalf("anonymous recommend mutated count to %d", p.RecommendCount)
	}
}

func TestRecommend_UnknownProvider(t *testing.T) {
	svc := NewRecommendationService(store.NewMemory())

	_, err := svc.Recommend(context.Background(), "missing", &Identity{UserID: 1})
	if !errors.Is(err, store.ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRecommend_IndependentUsers(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p2")
	svc := NewRecommendationService(mem)
	ctx := context.Background()

	for i := uint(1); i <= 4; i++ {
		count, err := svc.Recommend(ctx, "p2", &Identity{UserID: i})
		if err != nil {
			t.Fatalf("recommend from user %d failed: %v", i, err)
		}
		if count != int64(i) {
			t.Fatalf("expected count %d after user %d, got %d", i, i, count)
		}
	}
}

func TestHasRecommended(t *testing.T) {
	mem := store.NewMemory()
	seedProvider(t, mem, "p2")
	svc := NewRecommendationService(mem)
	ctx := context.Background()

	if has, _ := svc.HasRecommended(ctx, "p2", &Identity{UserID: 3}); has {
		t.Fatal("expected HasRecommended false before recommending")
	}
	if has, _ := svc.HasRecommended(ctx, "p2", nil); has {
		t.Fatal("anonymous caller can never have recommended")
	}

	if _, err := svc.Recommend(ctx, "p2", &Identity{UserID: 3}); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if has, _ := svc.HasRecommended(ctx, "p2", &Identity{UserID: 3}); !has {
		t.Fatal("expected HasRecommended true after recommending")
	}
}

package consumer

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/models"
	"github.com/localserv/localserv-backend/store"
)

// makeApp builds a fiber app over the in-memory store with a bootstrap
// middleware that injects the caller identity from X-User-ID/X-User-Name
// headers, standing in for the JWT middleware.
func makeApp(s store.Store) *fiber.App {
	Init(s)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("userID", uint(id))
				if name := c.Get("X-User-Name"); name != "" {
					c.Locals("userName", name)
				}
			}
		}
		return c.Next()
	})

	group := app.Group("/providers")
	group.Get("/", GetProviders)
	group.Get("/featured", GetFeaturedProviders)
	group.Get("/regions", GetProviderRegions)
	group.Get("/tags", GetReviewTags)
	group.Get("/:uid", GetProviderDetails)
	group.Post("/:uid/recommend", RecommendProvider)
	group.Get("/:uid/reviews", GetProviderReviews)
	group.Get("/:uid/reviews/stats", GetProviderReviewStats)
	group.Post("/:uid/reviews", CreateReview)
	return app
}

func seedStore(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	err := mem.CreateProvider(context.Background(), &models.Provider{
		UID:      "p1",
		Name:     "Ramesh Kumar",
		Service:  "AC Repair",
		Locality: "Andheri",
		District: "Mumbai",
		State:    "Maharashtra",
		Phone:    "9876500000",
	})
	if err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return mem
}

func TestRecommendEndpoint(t *testing.T) {
	app := makeApp(seedStore(t))

	// Anonymous caller gets a login prompt and nothing is recorded.
	req := httptest.NewRequest("POST", "/providers/p1/recommend", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("anonymous recommend request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous recommend, got %d", res.StatusCode)
	}

	// Authenticated recommend succeeds and returns the new count.
	req = httptest.NewRequest("POST", "/providers/p1/recommend", nil)
	req.Header.Set("X-User-ID", "3")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("recommend request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for recommend, got %d", res.StatusCode)
	}
	var body struct {
		RecommendCount int64 `json:"recommend_count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode recommend response: %v", err)
	}
	if body.RecommendCount != 1 {
		t.Fatalf("expected recommend_count 1, got %d", body.RecommendCount)
	}

	// Same account again conflicts.
	req = httptest.NewRequest("POST", "/providers/p1/recommend", nil)
	req.Header.Set("X-User-ID", "3")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate recommend, got %d", res.StatusCode)
	}

	// Unknown provider is a 404.
	req = httptest.NewRequest("POST", "/providers/missing/recommend", nil)
	req.Header.Set("X-User-ID", "3")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown provider, got %d", res.StatusCode)
	}
}

func TestReviewEndpoint(t *testing.T) {
	app := makeApp(seedStore(t))

	send := func(userID, name, body string) (int, []byte) {
		req := httptest.NewRequest("POST", "/providers/p1/reviews", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if userID != "" {
			req.Header.Set("X-User-ID", userID)
		}
		if name != "" {
			req.Header.Set("X-User-Name", name)
		}
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("review request failed: %v", err)
		}
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, b
	}

	// Anonymous submission is rejected.
	if status, _ := send("", "", `{"rating":4}`); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous review, got %d", status)
	}

	// Out-of-range rating is rejected.
	if status, _ := send("1", "Asha", `{"rating":6}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for rating 6, got %d", status)
	}
	if status, _ := send("1", "Asha", `{"rating":0}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for rating 0, got %d", status)
	}

	// Valid review sticks and reports the new average.
	status, body := send("1", "Asha", `{"rating":4,"tags":["Great Service","Bogus Tag"],"comment":"tidy work"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 for valid review, got %d: %s", status, body)
	}
	var created struct {
		AvgRating float64 `json:"avg_rating"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode review response: %v", err)
	}
	if created.AvgRating != 4.0 {
		t.Fatalf("expected avg 4.0, got %v", created.AvgRating)
	}

	// Second review from the same account conflicts.
	if status, _ := send("1", "Asha", `{"rating":5}`); status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate review, got %d", status)
	}

	// A second user moves the average.
	status, body = send("2", "Vikram", `{"rating":2}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 for second user, got %d", status)
	}
	json.Unmarshal(body, &created)
	if created.AvgRating != 3.0 {
		t.Fatalf("expected avg 3.0 after two reviews, got %v", created.AvgRating)
	}

	// The listing carries the filtered tags and the review count.
	req := httptest.NewRequest("GET", "/providers/p1/reviews", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 listing reviews, got %d", res.StatusCode)
	}
	listing, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(listing), `"total":2`) {
		t.Fatalf("expected 2 reviews in listing, got %s", listing)
	}
	if strings.Contains(string(listing), "Bogus Tag") {
		t.Fatalf("unknown tag leaked into stored review: %s", listing)
	}
	if !strings.Contains(string(listing), "Great Service") {
		t.Fatalf("expected known tag in listing, got %s", listing)
	}
}

func TestProviderDetailsEndpoint(t *testing.T) {
	mem := seedStore(t)
	app := makeApp(mem)

	if _, err := mem.Recommend(context.Background(), "p1", 3); err != nil {
		t.Fatalf("seed recommend: %v", err)
	}

	req := httptest.NewRequest("GET", "/providers/p1", nil)
	req.Header.Set("X-User-ID", "3")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("details request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for details, got %d", res.StatusCode)
	}

	var body struct {
		Provider       models.Provider `json:"provider"`
		RecommendedBy  []uint          `json:"recommended_by"`
		HasRecommended bool            `json:"has_recommended"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if body.Provider.UID != "p1" {
		t.Fatalf("expected provider p1, got %q", body.Provider.UID)
	}
	if len(body.RecommendedBy) != 1 || body.RecommendedBy[0] != 3 {
		t.Fatalf("expected recommended_by [3], got %v", body.RecommendedBy)
	}
	if !body.HasRecommended {
		t.Fatal("expected has_recommended true for user 3")
	}

	// A different user sees the membership but not their own flag.
	req = httptest.NewRequest("GET", "/providers/p1", nil)
	req.Header.Set("X-User-ID", "8")
	res, _ = app.Test(req)
	json.NewDecoder(res.Body).Decode(&body)
	if body.HasRecommended {
		t.Fatal("expected has_recommended false for user 8")
	}
}

func TestDirectoryEndpoints(t *testing.T) {
	mem := seedStore(t)
	mem.CreateProvider(context.Background(), &models.Provider{
		UID: "p2", Name: "Suresh", Service: "Plumbing", District: "Jaipur", State: "Rajasthan",
	})
	app := makeApp(mem)

	req := httptest.NewRequest("GET", "/providers/?category=ac-repair", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("directory request failed: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Ramesh Kumar") || strings.Contains(string(body), "Suresh") {
		t.Fatalf("category filter returned wrong providers: %s", body)
	}

	req = httptest.NewRequest("GET", "/providers/regions", nil)
	res, _ = app.Test(req)
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Maharashtra") || !strings.Contains(string(body), "Rajasthan") {
		t.Fatalf("regions response missing states: %s", body)
	}

	req = httptest.NewRequest("GET", "/providers/tags", nil)
	res, _ = app.Test(req)
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Fake Service Registration") {
		t.Fatalf("tags response missing vocabulary: %s", body)
	}
}

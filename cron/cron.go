package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/localserv/localserv-backend/store"
)

// StartCronJobs starts the scheduler that keeps provider aggregates honest.
// The recommend/review flows update rating_sum, rating_count and
// recommend_count transactionally, so this is a safety net for manual data
// edits or partial restores, not part of the hot path.
func StartCronJobs(s store.Store) {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() { reconcileAggregates(s) })
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for aggregate reconciliation")
}

func reconcileAggregates(s store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.ReconcileAggregates(ctx); err != nil {
		log.Printf("Aggregate reconciliation failed: %v", err)
		return
	}
	log.Printf("Aggregate reconciliation finished in %s", time.Since(start))
}

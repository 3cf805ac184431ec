package scheduler

import (
	"github.com/npatel/recipebox-backend/internal/app/service"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingSnapshotScheduler rebuilds the recipe rating snapshots nightly
// so the popular recipes endpoint reads a cheap denormalized table
// instead of aggregating on every request.
type RatingSnapshotScheduler struct {
	cron          *cron.Cron
	recipeService service.RecipeService
}

func NewRatingSnapshotScheduler(recipeService service.RecipeService) *RatingSnapshotScheduler {
	return &RatingSnapshotScheduler{
		cron:          cron.New(),
		recipeService: recipeService,
	}
}

// Start refreshes once immediately, then every night at 03:00.
func (s *RatingSnapshotScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.refresh)
	if err != nil {
		logger.Error("Failed to add cron job for rating snapshots", err)
		return err
	}

	// Populate the snapshot table at boot so the popular listing is
	// never empty on a fresh deployment.
	go s.refresh()

	s.cron.Start()
	logger.Info("Rating snapshot scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *RatingSnapshotScheduler) refresh() {
	logger.Info("Starting scheduled rating snapshot refresh", nil)

	count, err := s.recipeService.RefreshRatingSnapshots()
	if err != nil {
		logger.Error("Scheduled rating snapshot refresh failed", err)
		return
	}

	logger.Info("Scheduled rating snapshot refresh complete", map[string]interface{}{
		"recipes": count,
	})
}

// Stop stops the scheduler.
func (s *RatingSnapshotScheduler) Stop() {
	logger.Info("Stopping rating snapshot scheduler...", nil)
	s.cron.Stop()
	logger.Info("Rating snapshot scheduler stopped", nil)
}

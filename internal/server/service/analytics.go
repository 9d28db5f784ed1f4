package service

import (
	"context"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

// AnalyticsService aggregates a user's learning and teaching history.
type AnalyticsService struct {
	Store store.Store
}

// Summary returns the headline dashboard numbers. The average rating is the
// user's received rating, which is zero for learners.
func (s *AnalyticsService) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	sum, err := s.Store.Bookings().Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	avg, _, err := s.Store.Reviews().AverageForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum.AverageRating = avg

	return &sum, nil
}

// Activity returns the weekday/hour heatmap of the user's sessions.
func (s *AnalyticsService) Activity(ctx context.Context, userID string) ([]domain.ActivityBucket, error) {
	return s.Store.Bookings().ActivityBuckets(ctx, userID)
}

// Scores returns the 1-5 review histogram for the user.
func (s *AnalyticsService) Scores(ctx context.Context, userID string) ([]domain.ScoreBucket, error) {
	return s.Store.Reviews().ScoreBuckets(ctx, userID)
}

package service

import (
	"context"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

// MatchingService finds tutors for learners.
type MatchingService struct {
	Store store.Store
}

// Search returns tutors matching the filter, best rated first, with their
// declared skills attached.
func (s *MatchingService) Search(ctx context.Context, filter domain.TutorFilter) ([]domain.TutorListing, error) {
	listings, err := s.Store.Users().SearchTutors(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		skills, err := s.Store.Skills().ListTutorSkills(ctx, listings[i].Tutor.ID)
		if err != nil {
			return nil, err
		}
		listings[i].Skills = skills
	}
	return listings, nil
}

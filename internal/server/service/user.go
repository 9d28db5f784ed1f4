package service

import (
	"context"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

// UserService reads and updates account profiles.
type UserService struct {
	Store store.Store
}

func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile merges the patch and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	if err := s.Store.Users().UpdateProfile(ctx, userID, patch); err != nil {
		return nil, err
	}
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/idx"
)

var ErrUnknownSkill = errors.New("unknown_skill")

// SkillService manages the skill catalog and tutors' declared skills.
type SkillService struct {
	Store store.Store
}

func (s *SkillService) List(ctx context.Context) ([]domain.Skill, error) {
	return s.Store.Skills().ListSkills(ctx)
}

// Create adds a catalog entry. Duplicate names surface as ErrAlreadyExists.
func (s *SkillService) Create(ctx context.Context, name, category string) (*domain.Skill, error) {
	sk := domain.Skill{
		ID:       idx.New().String(),
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
	}
	if err := s.Store.Skills().CreateSkill(ctx, sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// AddMine declares that the calling tutor teaches a catalog skill.
func (s *SkillService) AddMine(ctx context.Context, tutorID, skillID string) (*domain.Skill, error) {
	sk, err := s.Store.Skills().GetSkillByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownSkill
		}
		return nil, err
	}

	if err := s.Store.Skills().AddTutorSkill(ctx, tutorID, skillID); err != nil {
		return nil, err
	}
	return &sk, nil
}

func (s *SkillService) ListMine(ctx context.Context, tutorID string) ([]domain.Skill, error) {
	return s.Store.Skills().ListTutorSkills(ctx, tutorID)
}

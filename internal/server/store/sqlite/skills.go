package sqlite

import (
	"context"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
)

type skillsRepo struct {
	q querier
}

func scanSkill(scan func(dest ...any) error) (domain.Skill, error) {
	var s domain.Skill
	var created int64
	if err := scan(&s.ID, &s.Name, &s.Category, &created); err != nil {
		return domain.Skill{}, err
	}
	s.CreatedAt = fromEpoch(created)
	return s, nil
}

func (r *skillsRepo) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, category, created_at FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		s, err := scanSkill(rows.Scan)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *skillsRepo) GetSkillByID(ctx context.Context, id string) (domain.Skill, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, name, category, created_at FROM skills WHERE id = ?`, id)
	s, err := scanSkill(row.Scan)
	if err != nil {
		return domain.Skill{}, mapNotFound(err)
	}
	return s, nil
}

func (r *skillsRepo) CreateSkill(ctx context.Context, s domain.Skill) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO skills (id, name, category, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.Category, toEpoch(time.Now()),
	)
	return mapConstraint(err)
}

func (r *skillsRepo) AddTutorSkill(ctx context.Context, tutorID, skillID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO tutor_skills (tutor_id, skill_id) VALUES (?, ?)`,
		tutorID, skillID,
	)
	return err
}

func (r *skillsRepo) ListTutorSkills(ctx context.Context, tutorID string) ([]domain.Skill, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, s.name, s.category, s.created_at
		FROM skills s
		JOIN tutor_skills ts ON ts.skill_id = s.id
		WHERE ts.tutor_id = ?
		ORDER BY s.name ASC`, tutorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		s, err := scanSkill(rows.Scan)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

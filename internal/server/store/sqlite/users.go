package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, name, email, password_hash, role, bio, hourly_rate, timezone, created_at, updated_at`

func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var u domain.User
	var created, updated int64
	err := scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Bio, &u.HourlyRate, &u.Timezone, &created, &updated,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = fromEpoch(created)
	u.UpdatedAt = fromEpoch(updated)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row.Scan)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	u, err := scanUser(row.Scan)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := toEpoch(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, bio, hourly_rate, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Bio, u.HourlyRate, u.Timezone, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, *patch.Bio)
	}
	if patch.HourlyRate != nil {
		sets = append(sets, "hourly_rate = ?")
		args = append(args, *patch.HourlyRate)
	}
	if patch.Timezone != nil {
		sets = append(sets, "timezone = ?")
		args = append(args, *patch.Timezone)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, toEpoch(time.Now()), userID)

	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SearchTutors(ctx context.Context, filter domain.TutorFilter) ([]domain.TutorListing, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.bio, u.hourly_rate, u.timezone,
		       u.created_at, u.updated_at,
		       COALESCE(AVG(r.rating), 0) AS rating,
		       COUNT(r.id) AS reviews
		FROM users u
		LEFT JOIN reviews r ON r.tutor_id = u.id
		WHERE u.role = 'tutor'
		  AND (? = '' OR EXISTS (
		      SELECT 1 FROM tutor_skills ts
		      JOIN skills s ON s.id = ts.skill_id
		      WHERE ts.tutor_id = u.id AND s.name = ? COLLATE NOCASE))
		  AND (? <= 0 OR u.hourly_rate <= ?)
		GROUP BY u.id
		HAVING (? <= 0 OR COALESCE(AVG(r.rating), 0) >= ?)
		ORDER BY rating DESC, reviews DESC, u.name ASC
		LIMIT ?`,
		filter.Skill, filter.Skill,
		filter.MaxRate, filter.MaxRate,
		filter.MinRating, filter.MinRating,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.TutorListing
	for rows.Next() {
		var l domain.TutorListing
		var created, updated int64
		err := rows.Scan(
			&l.Tutor.ID, &l.Tutor.Name, &l.Tutor.Email, &l.Tutor.PasswordHash, &l.Tutor.Role,
			&l.Tutor.Bio, &l.Tutor.HourlyRate, &l.Tutor.Timezone, &created, &updated,
			&l.Rating, &l.Reviews,
		)
		if err != nil {
			return nil, err
		}
		l.Tutor.CreatedAt = fromEpoch(created)
		l.Tutor.UpdatedAt = fromEpoch(updated)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

package sqlite

import (
	"context"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

type bookingsRepo struct {
	q querier
}

const bookingViewColumns = `
	b.id, b.tutor_id, b.learner_id, b.skill_id, b.starts_at, b.duration_minutes,
	b.status, b.created_at, b.updated_at,
	tu.name, le.name, s.name`

const bookingViewJoins = `
	FROM bookings b
	JOIN users tu ON tu.id = b.tutor_id
	JOIN users le ON le.id = b.learner_id
	JOIN skills s ON s.id = b.skill_id`

func scanBookingView(scan func(dest ...any) error) (domain.BookingView, error) {
	var v domain.BookingView
	var starts, created, updated int64
	err := scan(
		&v.ID, &v.TutorID, &v.LearnerID, &v.SkillID, &starts, &v.DurationMinutes,
		&v.Status, &created, &updated,
		&v.TutorName, &v.LearnerName, &v.SkillName,
	)
	if err != nil {
		return domain.BookingView{}, err
	}
	v.StartsAt = fromEpoch(starts)
	v.CreatedAt = fromEpoch(created)
	v.UpdatedAt = fromEpoch(updated)
	return v, nil
}

func (r *bookingsRepo) CreateBooking(ctx context.Context, b domain.Booking) error {
	now := toEpoch(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO bookings (id, tutor_id, learner_id, skill_id, starts_at, duration_minutes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TutorID, b.LearnerID, b.SkillID, toEpoch(b.StartsAt), b.DurationMinutes, b.Status, now, now,
	)
	return err
}

func (r *bookingsRepo) GetBookingByID(ctx context.Context, id string) (domain.BookingView, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+bookingViewColumns+bookingViewJoins+` WHERE b.id = ?`, id)
	v, err := scanBookingView(row.Scan)
	if err != nil {
		return domain.BookingView{}, mapNotFound(err)
	}
	return v, nil
}

func (r *bookingsRepo) ListUserBookings(ctx context.Context, userID string, filter domain.BookingFilter) ([]domain.BookingView, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+bookingViewColumns+bookingViewJoins+`
		WHERE (b.tutor_id = ? OR b.learner_id = ?)
		  AND (? = '' OR b.status = ?)
		  AND (? = 0 OR b.starts_at >= ?)
		  AND (? = 0 OR b.starts_at < ?)
		ORDER BY b.starts_at DESC`,
		userID, userID,
		filter.Status, filter.Status,
		toEpoch(filter.From), toEpoch(filter.From),
		toEpoch(filter.To), toEpoch(filter.To),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows.Scan)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *bookingsRepo) UpdateBookingStatus(ctx context.Context, id, status string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, toEpoch(time.Now()), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CompleteElapsedBookings flips booked sessions whose end time has passed.
// End time is starts_at plus the duration in seconds.
func (r *bookingsRepo) CompleteElapsedBookings(ctx context.Context) error {
	now := toEpoch(time.Now())
	_, err := r.q.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'completed', updated_at = ?
		WHERE status = 'booked' AND starts_at + duration_minutes * 60 < ?`,
		now, now)
	return err
}

func (r *bookingsRepo) Summary(ctx context.Context, userID string) (domain.Summary, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'completed'), 0),
		       COALESCE(SUM(status = 'cancelled'), 0),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN duration_minutes ELSE 0 END), 0)
		FROM bookings
		WHERE tutor_id = ? OR learner_id = ?`, userID, userID)

	var s domain.Summary
	err := row.Scan(&s.TotalSessions, &s.CompletedSessions, &s.CancelledSessions, &s.TotalMinutes)
	if err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

// ActivityBuckets groups the user's non-cancelled sessions by weekday and
// hour. Bucketing happens in Go so the stored epoch stays the single source
// of truth for time math.
func (r *bookingsRepo) ActivityBuckets(ctx context.Context, userID string) ([]domain.ActivityBucket, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT starts_at FROM bookings
		WHERE (tutor_id = ? OR learner_id = ?) AND status != 'cancelled'`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[[2]int]int)
	for rows.Next() {
		var starts int64
		if err := rows.Scan(&starts); err != nil {
			return nil, err
		}
		t := fromEpoch(starts)
		counts[[2]int{int(t.Weekday()), t.Hour()}]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets := make([]domain.ActivityBucket, 0, len(counts))
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			if n := counts[[2]int{day, hour}]; n > 0 {
				buckets = append(buckets, domain.ActivityBucket{Weekday: day, Hour: hour, Count: n})
			}
		}
	}
	return buckets, nil
}
